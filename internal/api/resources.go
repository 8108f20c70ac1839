package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/supabase-community/postgrest-go"

	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/storage"
)

// resource parameterizes the shared list/editor plumbing: one table, its
// display ordering, and the columns holding stored file paths. The five
// entity pairs differ only in these values plus their write payloads.
type resource struct {
	name     string
	table    string
	bucket   string
	fileCols []string
	order    []orderRule
}

type orderRule struct {
	column    string
	ascending bool
}

var (
	portfolioResource = resource{
		name:     "project",
		table:    "portfolio",
		bucket:   storage.BucketPortfolio,
		fileCols: []string{"image_url"},
		order:    []orderRule{{"created_at", false}},
	}
	activityResource = resource{
		name:     "activity",
		table:    "activities",
		bucket:   storage.BucketActivities,
		fileCols: []string{"image_url"},
		order:    []orderRule{{"date", false}},
	}
	releaseResource = resource{
		name:     "app release",
		table:    "app_releases",
		bucket:   storage.BucketApks,
		fileCols: []string{"apk_url", "image_url"},
		// Pinned releases stay on top, newest first within each group.
		order: []orderRule{{"is_pinned", false}, {"created_at", false}},
	}
	serviceResource = resource{
		name:  "service",
		table: "services",
		// Oldest first keeps package ordering stable for editors.
		order: []orderRule{{"created_at", true}},
	}
)

// listRows fetches all rows of a resource, optionally owner-scoped and
// capped. An empty result is a valid outcome, never an error.
func listRows[T any](s *Server, res resource, ownerID string, limit int) ([]T, error) {
	q := s.sb.Rest.From(res.table).Select("*", "", false)
	if ownerID != "" {
		q = q.Eq("user_id", ownerID)
	}
	for _, o := range res.order {
		q = q.Order(o.column, &postgrest.OrderOpts{Ascending: o.ascending})
	}
	if limit > 0 {
		q = q.Limit(limit, "")
	}

	rows := make([]T, 0)
	if _, err := q.ExecuteTo(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// getRow fetches a single row by id.
func getRow[T any](s *Server, res resource, id string) (T, error) {
	var row T
	_, err := s.sb.Rest.From(res.table).Select("*", "", false).
		Eq("id", id).Single().ExecuteTo(&row)
	return row, err
}

// deleteResource removes a row and then makes a single best-effort attempt to
// remove each storage object it referenced. A failed object removal is
// logged and never blocks the row deletion.
func (s *Server) deleteResource(c *fiber.Ctx, res resource) error {
	id := c.Params("id")

	row, err := getRow[map[string]any](s, res, id)
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": capitalize(res.name) + " not found",
			})
		}
		return s.dataError(c, "fetch "+res.name, err)
	}

	if _, _, err := s.sb.Rest.From(res.table).Delete("", "").Eq("id", id).Execute(); err != nil {
		return s.dataError(c, "delete "+res.name, err)
	}

	for _, col := range res.fileCols {
		path, _ := row[col].(string)
		if path == "" {
			continue
		}
		if err := s.store.Remove(res.bucket, path); err != nil {
			s.logger.Error("Failed to remove stored file", "bucket", res.bucket, "path", path, "error", err)
		}
	}

	return c.JSON(fiber.Map{"deleted": true})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
