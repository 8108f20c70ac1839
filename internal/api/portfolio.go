package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/models"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/session"
	"github.com/kbahtiar/folio/internal/storage"
)

func (s *Server) handleListPortfolio(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := listRows[models.PortfolioItem](s, portfolioResource, sess.UserID, 0)
	if err != nil {
		return s.dataError(c, "fetch projects", err)
	}
	return c.JSON(fiber.Map{"projects": items})
}

func (s *Server) handleGetPortfolio(c *fiber.Ctx) error {
	item, err := getRow[models.PortfolioItem](s, portfolioResource, c.Params("id"))
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
		}
		return s.dataError(c, "fetch project", err)
	}

	// skills_input is the comma-joined form the editor round-trips.
	return c.JSON(fiber.Map{
		"project":      item,
		"skills_input": models.JoinSkills(item.Skills),
	})
}

type portfolioRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectURL  string `json:"project_url"`
	ImageURL    string `json:"image_url"`

	// Skills arrives as the editor's comma-separated string.
	Skills string `json:"skills"`
}

func (r portfolioRequest) payload(ownerID string) map[string]any {
	return map[string]any{
		"user_id":     ownerID,
		"title":       r.Title,
		"description": r.Description,
		"project_url": r.ProjectURL,
		"image_url":   r.ImageURL,
		"skills":      models.SplitSkills(r.Skills),
	}
}

func (s *Server) handleCreatePortfolio(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req portfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	if _, _, err := s.sb.Rest.From("portfolio").Insert(req.payload(sess.UserID), false, "", "", "").Execute(); err != nil {
		return s.dataError(c, "create project", err)
	}
	s.commitUpload(c, storage.BucketPortfolio, req.ImageURL)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": true})
}

func (s *Server) handleUpdatePortfolio(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req portfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	if _, _, err := s.sb.Rest.From("portfolio").Update(req.payload(sess.UserID), "", "").
		Eq("id", c.Params("id")).Execute(); err != nil {
		return s.dataError(c, "update project", err)
	}
	s.commitUpload(c, storage.BucketPortfolio, req.ImageURL)

	return c.JSON(fiber.Map{"updated": true})
}

func (s *Server) handleDeletePortfolio(c *fiber.Ctx) error {
	return s.deleteResource(c, portfolioResource)
}
