package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/tidwall/gjson"

	"github.com/kbahtiar/folio/internal/models"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/internal/storage"
)

const visitorCookie = "visitor_id"

// ownerProfile returns the most-recently-updated profile, which public pages
// treat as "the" owner. ok is false when no profile row exists yet.
func (s *Server) ownerProfile() (models.Profile, bool, error) {
	profiles := make([]models.Profile, 0, 1)
	_, err := s.sb.Rest.From("profiles").Select("*", "", false).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		ExecuteTo(&profiles)
	if err != nil {
		return models.Profile{}, false, err
	}
	if len(profiles) == 0 {
		return models.Profile{}, false, nil
	}
	return profiles[0], true, nil
}

type publicProfile struct {
	models.Profile
	AvatarPublicURL string `json:"avatar_public_url,omitempty"`
	ResumePublicURL string `json:"resume_public_url,omitempty"`
}

func (s *Server) publicProfile(p models.Profile) publicProfile {
	out := publicProfile{Profile: p}
	if p.AvatarURL != "" {
		out.AvatarPublicURL = s.store.PublicURL(storage.BucketAvatars, p.AvatarURL)
	}
	if p.ResumeURL != "" {
		out.ResumePublicURL = s.store.PublicURL(storage.BucketResumes, p.ResumeURL)
	}
	return out
}

type publicProject struct {
	models.PortfolioItem
	ImagePublicURL string `json:"image_public_url,omitempty"`
}

func (s *Server) publicProjects(items []models.PortfolioItem) []publicProject {
	out := make([]publicProject, 0, len(items))
	for _, item := range items {
		p := publicProject{PortfolioItem: item}
		if item.ImageURL != "" {
			p.ImagePublicURL = s.store.PublicURL(storage.BucketPortfolio, item.ImageURL)
		}
		out = append(out, p)
	}
	return out
}

type publicActivity struct {
	models.Activity
	ImagePublicURL string `json:"image_public_url,omitempty"`
}

func (s *Server) publicActivities(items []models.Activity) []publicActivity {
	out := make([]publicActivity, 0, len(items))
	for _, item := range items {
		a := publicActivity{Activity: item}
		if item.ImageURL != "" {
			a.ImagePublicURL = s.store.PublicURL(storage.BucketActivities, item.ImageURL)
		}
		out = append(out, a)
	}
	return out
}

// handleHome composes the landing page: the owner profile plus its portfolio
// and activity highlights. ?limit caps the collections for the highlights
// view; dedicated list pages fetch uncapped.
func (s *Server) handleHome(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	profile, ok, err := s.ownerProfile()
	if err != nil {
		return s.dataError(c, "fetch profile", err)
	}
	if !ok {
		return c.JSON(fiber.Map{
			"profile":    nil,
			"portfolio":  []publicProject{},
			"activities": []publicActivity{},
		})
	}

	portfolio, err := listRows[models.PortfolioItem](s, portfolioResource, profile.ID, limit)
	if err != nil {
		return s.dataError(c, "fetch projects", err)
	}

	activities, err := listRows[models.Activity](s, activityResource, profile.ID, limit)
	if err != nil {
		return s.dataError(c, "fetch activities", err)
	}

	return c.JSON(fiber.Map{
		"profile":    s.publicProfile(profile),
		"portfolio":  s.publicProjects(portfolio),
		"activities": s.publicActivities(activities),
	})
}

func (s *Server) handleProjects(c *fiber.Ctx) error {
	items, err := listRows[models.PortfolioItem](s, portfolioResource, "", 0)
	if err != nil {
		return s.dataError(c, "fetch projects", err)
	}
	return c.JSON(fiber.Map{"projects": s.publicProjects(items)})
}

func (s *Server) handleActivityFeed(c *fiber.Ctx) error {
	items, err := listRows[models.Activity](s, activityResource, "", 0)
	if err != nil {
		return s.dataError(c, "fetch activities", err)
	}
	return c.JSON(fiber.Map{"activities": s.publicActivities(items)})
}

type servicePackage struct {
	ID           int      `json:"id"`
	TitleEN      string   `json:"title_en"`
	TitleID      string   `json:"title_id"`
	Price        string   `json:"price"`
	TimeEN       string   `json:"time_en"`
	TimeID       string   `json:"time_id"`
	FeaturesEN   []string `json:"features_en"`
	FeaturesID   []string `json:"features_id"`
	Color        string   `json:"color"`
	Popular      bool     `json:"popular"`
	ContactURLEN string   `json:"contact_url_en,omitempty"`
	ContactURLID string   `json:"contact_url_id,omitempty"`
}

// handleServiceList renders the pricing packages with decoded feature lists
// and, when the owner has a phone number, the WhatsApp deep link per package.
func (s *Server) handleServiceList(c *fiber.Ctx) error {
	services, err := listRows[models.Service](s, serviceResource, "", 0)
	if err != nil {
		return s.dataError(c, "fetch services", err)
	}

	profile, _, err := s.ownerProfile()
	if err != nil {
		return s.dataError(c, "fetch profile", err)
	}

	out := make([]servicePackage, 0, len(services))
	for _, svc := range services {
		pkg := servicePackage{
			ID:         svc.ID,
			TitleEN:    svc.TitleEN,
			TitleID:    svc.TitleID,
			Price:      svc.Price,
			TimeEN:     svc.TimeEN,
			TimeID:     svc.TimeID,
			FeaturesEN: models.DecodeFeatures(svc.FeaturesEN),
			FeaturesID: models.DecodeFeatures(svc.FeaturesID),
			Color:      svc.Color,
			Popular:    svc.Popular,
		}
		pkg.ContactURLEN = profile.WhatsAppLink(fmt.Sprintf(s.cfg.Site.ContactTemplate, svc.TitleEN))
		pkg.ContactURLID = profile.WhatsAppLink(fmt.Sprintf(s.cfg.Site.ContactTemplate, svc.TitleID))
		out = append(out, pkg)
	}

	return c.JSON(fiber.Map{"services": out})
}

type publicRelease struct {
	models.AppRelease
	ImagePublicURL string `json:"image_public_url,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
}

func (s *Server) handleAppList(c *fiber.Ctx) error {
	apps, err := listRows[models.AppRelease](s, releaseResource, "", 0)
	if err != nil {
		return s.dataError(c, "fetch apps", err)
	}

	out := make([]publicRelease, 0, len(apps))
	for _, app := range apps {
		r := publicRelease{AppRelease: app}
		if app.ImageURL != "" {
			r.ImagePublicURL = s.store.PublicURL(storage.BucketApks, app.ImageURL)
		}
		if app.ApkURL != "" {
			r.DownloadURL = fmt.Sprintf("/api/apps/%d/download", app.ID)
		}
		out = append(out, r)
	}
	return c.JSON(fiber.Map{"apps": out})
}

// handleAppDownload counts the download atomically and redirects to the
// public APK object. The counter is a server-side procedure so N concurrent
// downloads always land as exactly N increments.
func (s *Server) handleAppDownload(c *fiber.Ctx) error {
	id := c.Params("id")

	app, err := getRow[models.AppRelease](s, releaseResource, id)
	if err != nil {
		if supabase.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "App release not found",
			})
		}
		return s.dataError(c, "fetch app release", err)
	}

	if app.ApkURL == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No APK uploaded for this release",
		})
	}

	if _, err := s.sb.Rpc("increment_download_count", map[string]any{"app_id": app.ID}); err != nil {
		return s.dataError(c, "count download", err)
	}

	return c.Redirect(s.store.PublicURL(storage.BucketApks, app.ApkURL), fiber.StatusFound)
}

// handleVisit bumps the visitor counter at most once per browser session.
// The session guard is a SETNX on a visitor cookie: repeated navigations
// within the same visit never inflate the counter, and a guard failure
// skips the increment rather than risking double counting.
func (s *Server) handleVisit(c *fiber.Ctx) error {
	vid := c.Cookies(visitorCookie)
	if vid == "" {
		vid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     visitorCookie,
			Value:    vid,
			MaxAge:   int(s.cfg.Site.VisitorTTL.Seconds()),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}

	fresh, err := s.db.Redis.SetNX(c.Context(), "visitor:"+vid, 1, s.cfg.Site.VisitorTTL).Result()
	if err != nil {
		s.logger.Error("Visitor guard unavailable", "error", err)
		return c.JSON(fiber.Map{"counted": false})
	}
	if !fresh {
		return c.JSON(fiber.Map{"counted": false})
	}

	result, err := s.sb.Rpc("increment_visitor_count", map[string]any{})
	if err != nil {
		return s.dataError(c, "count visit", err)
	}

	return c.JSON(fiber.Map{
		"counted":       true,
		"visitor_count": gjson.Parse(result).Int(),
	})
}

// handleStats backs the dashboard visitor-count card.
func (s *Server) handleStats(c *fiber.Ctx) error {
	stats := make([]models.SiteStats, 0, 1)
	_, err := s.sb.Rest.From("site_stats").Select("*", "", false).Limit(1, "").ExecuteTo(&stats)
	if err != nil {
		return s.dataError(c, "fetch stats", err)
	}

	var count int64
	if len(stats) > 0 {
		count = stats[0].VisitorCount
	}
	return c.JSON(fiber.Map{"visitor_count": count})
}
