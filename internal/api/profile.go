package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/models"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/session"
	"github.com/kbahtiar/folio/internal/storage"
)

// handleGetProfile loads the owner's profile for the editor. A missing row is
// not an error: the editor starts from empty defaults.
func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var profile models.Profile
	_, err = s.sb.Rest.From("profiles").Select("*", "", false).
		Eq("id", sess.UserID).Single().ExecuteTo(&profile)
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.JSON(fiber.Map{"profile": models.Profile{ID: sess.UserID}})
		}
		return s.dataError(c, "fetch profile", err)
	}

	return c.JSON(fiber.Map{"profile": s.publicProfile(profile)})
}

type profileRequest struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar_url"`
	Website      string `json:"website"`
	GithubURL    string `json:"github_url"`
	LinkedinURL  string `json:"linkedin_url"`
	InstagramURL string `json:"instagram_url"`
	Phone        string `json:"phone"`
	ResumeURL    string `json:"resume_url"`
}

// handleUpdateProfile upserts the single profile row, keyed by the session
// user. Last writer wins; there is no conflict detection.
func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]any{
		"id":            sess.UserID,
		"username":      req.Username,
		"full_name":     req.FullName,
		"bio":           req.Bio,
		"avatar_url":    req.AvatarURL,
		"website":       req.Website,
		"github_url":    req.GithubURL,
		"linkedin_url":  req.LinkedinURL,
		"instagram_url": req.InstagramURL,
		"phone":         req.Phone,
		"resume_url":    req.ResumeURL,
		"updated_at":    time.Now().UTC(),
	}

	if _, _, err := s.sb.Rest.From("profiles").Upsert(updates, "", "", "").Execute(); err != nil {
		return s.dataError(c, "update profile", err)
	}

	s.commitUpload(c, storage.BucketAvatars, req.AvatarURL)
	s.commitUpload(c, storage.BucketResumes, req.ResumeURL)

	return c.JSON(fiber.Map{"updated": true})
}

// commitUpload marks a stored path as referenced by a saved row so the
// orphan sweep leaves it alone.
func (s *Server) commitUpload(c *fiber.Ctx, bucket, path string) {
	if path == "" {
		return
	}
	if err := s.pending.Commit(c.Context(), bucket, path); err != nil {
		s.logger.Warn("Failed to commit upload", "bucket", bucket, "path", path, "error", err)
	}
}
