package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/models"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/session"
	"github.com/kbahtiar/folio/internal/storage"
)

func (s *Server) handleListReleases(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	apps, err := listRows[models.AppRelease](s, releaseResource, sess.UserID, 0)
	if err != nil {
		return s.dataError(c, "fetch apps", err)
	}
	return c.JSON(fiber.Map{"apps": apps})
}

func (s *Server) handleGetRelease(c *fiber.Ctx) error {
	app, err := getRow[models.AppRelease](s, releaseResource, c.Params("id"))
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "App release not found"})
		}
		return s.dataError(c, "fetch app release", err)
	}
	return c.JSON(fiber.Map{"app": app})
}

type releaseRequest struct {
	AppName     string `json:"app_name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	ApkURL      string `json:"apk_url"`
	ImageURL    string `json:"image_url"`
	IsPinned    bool   `json:"is_pinned"`
}

func (r releaseRequest) payload(ownerID string) map[string]any {
	return map[string]any{
		"user_id":     ownerID,
		"app_name":    r.AppName,
		"version":     r.Version,
		"description": r.Description,
		"apk_url":     r.ApkURL,
		"image_url":   r.ImageURL,
		"is_pinned":   r.IsPinned,
		"updated_at":  time.Now().UTC(),
	}
}

func (s *Server) handleCreateRelease(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req releaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.AppName == "" || req.Version == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "App name and version are required"})
	}

	if _, _, err := s.sb.Rest.From("app_releases").Insert(req.payload(sess.UserID), false, "", "", "").Execute(); err != nil {
		return s.dataError(c, "create app release", err)
	}
	s.commitUpload(c, storage.BucketApks, req.ApkURL)
	s.commitUpload(c, storage.BucketApks, req.ImageURL)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": true})
}

func (s *Server) handleUpdateRelease(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req releaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.AppName == "" || req.Version == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "App name and version are required"})
	}

	if _, _, err := s.sb.Rest.From("app_releases").Update(req.payload(sess.UserID), "", "").
		Eq("id", c.Params("id")).Execute(); err != nil {
		return s.dataError(c, "update app release", err)
	}
	s.commitUpload(c, storage.BucketApks, req.ApkURL)
	s.commitUpload(c, storage.BucketApks, req.ImageURL)

	return c.JSON(fiber.Map{"updated": true})
}

type pinRequest struct {
	IsPinned bool `json:"is_pinned"`
}

// handlePinRelease sets the display-ordering pin flag. The client sends the
// desired state rather than a toggle, so racing tabs settle on last write.
func (s *Server) handlePinRelease(c *fiber.Ctx) error {
	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if _, _, err := s.sb.Rest.From("app_releases").
		Update(map[string]any{"is_pinned": req.IsPinned}, "", "").
		Eq("id", c.Params("id")).Execute(); err != nil {
		return s.dataError(c, "update pin status", err)
	}

	return c.JSON(fiber.Map{"is_pinned": req.IsPinned})
}

func (s *Server) handleDeleteRelease(c *fiber.Ctx) error {
	return s.deleteResource(c, releaseResource)
}
