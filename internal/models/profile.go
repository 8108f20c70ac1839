package models

import (
	"fmt"
	"net/url"
	"time"
)

// Profile is the owner profile row. The id matches the auth user id, and the
// avatar/resume columns hold bucket-relative paths, never absolute URLs.
type Profile struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatar_url"`
	Website      string    `json:"website"`
	GithubURL    string    `json:"github_url"`
	LinkedinURL  string    `json:"linkedin_url"`
	InstagramURL string    `json:"instagram_url"`
	Phone        string    `json:"phone"`
	ResumeURL    string    `json:"resume_url"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WhatsAppLink builds the wa.me deep link from the stored phone number and a
// message. Empty when no phone is set.
func (p Profile) WhatsAppLink(message string) string {
	if p.Phone == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", p.Phone, url.QueryEscape(message))
}
