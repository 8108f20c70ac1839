package models

import "time"

// AppRelease is a downloadable APK row. DownloadCount is only ever changed by
// the atomic counter procedure, never by a client-side read-modify-write.
// IsPinned is a display-ordering flag, not access control.
type AppRelease struct {
	ID            int       `json:"id"`
	UserID        string    `json:"user_id"`
	AppName       string    `json:"app_name"`
	Version       string    `json:"version"`
	Description   string    `json:"description"`
	ApkURL        string    `json:"apk_url"`
	ImageURL      string    `json:"image_url"`
	DownloadCount int64     `json:"download_count"`
	IsPinned      bool      `json:"is_pinned"`
	CreatedAt     time.Time `json:"created_at"`
}
