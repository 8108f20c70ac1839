package models

import (
	"strings"
	"time"
)

// PortfolioItem is a single project row. Skills are stored as an ordered list
// and edited as one comma-separated string.
type PortfolioItem struct {
	ID          int       `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectURL  string    `json:"project_url"`
	ImageURL    string    `json:"image_url"`
	Skills      []string  `json:"skills"`
	CreatedAt   time.Time `json:"created_at"`
}

// SplitSkills turns the editor's comma-separated string into the stored list,
// trimming whitespace and dropping empty tokens.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// JoinSkills is the inverse of SplitSkills, used to re-populate the editor.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
