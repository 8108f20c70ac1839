package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/storage"
)

// handleUpload is the first phase of the two-phase file flow: the object is
// stored immediately and only its bucket-relative path comes back; saving
// the owning row later commits it. Until then the upload stays pending and
// the sweep may reclaim it. A failed upload leaves any previously stored
// path untouched because nothing is returned to overwrite it with.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	if !storage.KnownBucket(bucket) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown bucket"})
	}

	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A file is required"})
	}
	if header.Size > s.cfg.Uploads.MaxSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File too large"})
	}

	// The APK bucket carries both app binaries and their cover images; only
	// uploads declared as APKs get the type check and the friendly name.
	var name string
	if bucket == storage.BucketApks && c.Query("kind") == "apk" {
		if err := storage.ValidateApk(header.Filename); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please upload a valid .apk file"})
		}
		name = storage.ApkObjectName(c.Query("app_name"), header.Filename)
	} else {
		name = storage.ObjectName(header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}
	defer file.Close()

	path, err := s.store.Upload(bucket, name, file)
	if err != nil {
		return s.dataError(c, "upload file", err)
	}

	if err := s.pending.Track(c.Context(), bucket, path); err != nil {
		// The upload succeeded; a missing pending entry only means the sweep
		// can't reclaim it if abandoned.
		s.logger.Warn("Failed to track pending upload", "bucket", bucket, "path", path, "error", err)
	}

	return c.JSON(fiber.Map{
		"bucket":     bucket,
		"path":       path,
		"public_url": s.store.PublicURL(bucket, path),
	})
}
