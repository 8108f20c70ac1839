package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/models"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/session"
	"github.com/kbahtiar/folio/internal/storage"
)

func (s *Server) handleListActivities(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := listRows[models.Activity](s, activityResource, sess.UserID, 0)
	if err != nil {
		return s.dataError(c, "fetch activities", err)
	}
	return c.JSON(fiber.Map{"activities": items})
}

func (s *Server) handleGetActivity(c *fiber.Ctx) error {
	item, err := getRow[models.Activity](s, activityResource, c.Params("id"))
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Activity not found"})
		}
		return s.dataError(c, "fetch activity", err)
	}
	return c.JSON(fiber.Map{"activity": item})
}

type activityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	ImageURL    string `json:"image_url"`
}

func (r activityRequest) payload(ownerID string) map[string]any {
	return map[string]any{
		"user_id":     ownerID,
		"title":       r.Title,
		"description": r.Description,
		"date":        r.Date,
		"image_url":   r.ImageURL,
	}
}

func (s *Server) handleCreateActivity(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req activityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and date are required"})
	}

	if _, _, err := s.sb.Rest.From("activities").Insert(req.payload(sess.UserID), false, "", "", "").Execute(); err != nil {
		return s.dataError(c, "create activity", err)
	}
	s.commitUpload(c, storage.BucketActivities, req.ImageURL)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": true})
}

func (s *Server) handleUpdateActivity(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req activityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and date are required"})
	}

	if _, _, err := s.sb.Rest.From("activities").Update(req.payload(sess.UserID), "", "").
		Eq("id", c.Params("id")).Execute(); err != nil {
		return s.dataError(c, "update activity", err)
	}
	s.commitUpload(c, storage.BucketActivities, req.ImageURL)

	return c.JSON(fiber.Map{"updated": true})
}

func (s *Server) handleDeleteActivity(c *fiber.Ctx) error {
	return s.deleteResource(c, activityResource)
}
