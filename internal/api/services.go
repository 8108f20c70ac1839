package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/models"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/session"
)

func (s *Server) handleListServices(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	services, err := listRows[models.Service](s, serviceResource, sess.UserID, 0)
	if err != nil {
		return s.dataError(c, "fetch services", err)
	}
	return c.JSON(fiber.Map{"services": services})
}

func (s *Server) handleGetService(c *fiber.Ctx) error {
	svc, err := getRow[models.Service](s, serviceResource, c.Params("id"))
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service not found"})
		}
		return s.dataError(c, "fetch service", err)
	}

	// The editor works with decoded feature lists.
	return c.JSON(fiber.Map{
		"service":     svc,
		"features_en": models.DecodeFeatures(svc.FeaturesEN),
		"features_id": models.DecodeFeatures(svc.FeaturesID),
	})
}

type serviceRequest struct {
	TitleEN    string   `json:"title_en"`
	TitleID    string   `json:"title_id"`
	Price      string   `json:"price"`
	TimeEN     string   `json:"time_en"`
	TimeID     string   `json:"time_id"`
	FeaturesEN []string `json:"features_en"`
	FeaturesID []string `json:"features_id"`
	Color      string   `json:"color"`
	Popular    bool     `json:"popular"`
}

func (r serviceRequest) payload(ownerID string) (map[string]any, error) {
	featuresEN, err := models.EncodeFeatures(r.FeaturesEN)
	if err != nil {
		return nil, err
	}
	featuresID, err := models.EncodeFeatures(r.FeaturesID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user_id":     ownerID,
		"title_en":    r.TitleEN,
		"title_id":    r.TitleID,
		"price":       r.Price,
		"time_en":     r.TimeEN,
		"time_id":     r.TimeID,
		"features_en": featuresEN,
		"features_id": featuresID,
		"color":       r.Color,
		"popular":     r.Popular,
	}, nil
}

func (s *Server) handleCreateService(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req serviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TitleEN == "" || req.Price == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and price are required"})
	}

	payload, err := req.payload(sess.UserID)
	if err != nil {
		return s.dataError(c, "encode service features", err)
	}
	if _, _, err := s.sb.Rest.From("services").Insert(payload, false, "", "", "").Execute(); err != nil {
		return s.dataError(c, "create service", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": true})
}

func (s *Server) handleUpdateService(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req serviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TitleEN == "" || req.Price == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and price are required"})
	}

	payload, err := req.payload(sess.UserID)
	if err != nil {
		return s.dataError(c, "encode service features", err)
	}
	if _, _, err := s.sb.Rest.From("services").Update(payload, "", "").
		Eq("id", c.Params("id")).Execute(); err != nil {
		return s.dataError(c, "update service", err)
	}

	return c.JSON(fiber.Map{"updated": true})
}

func (s *Server) handleDeleteService(c *fiber.Ctx) error {
	return s.deleteResource(c, serviceResource)
}
