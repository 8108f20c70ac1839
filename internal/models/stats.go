package models

// SiteStats is the single counter row behind the dashboard visitor card.
type SiteStats struct {
	ID           int   `json:"id"`
	VisitorCount int64 `json:"visitor_count"`
}
