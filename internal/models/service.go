package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Service is a pricing package row. Bilingual content is duplicated per
// column rather than normalized, and the feature lists persist as
// JSON-encoded text. Popular is a display highlight, not access control.
type Service struct {
	ID         int       `json:"id"`
	UserID     string    `json:"user_id"`
	TitleEN    string    `json:"title_en"`
	TitleID    string    `json:"title_id"`
	Price      string    `json:"price"`
	TimeEN     string    `json:"time_en"`
	TimeID     string    `json:"time_id"`
	FeaturesEN string    `json:"features_en"`
	FeaturesID string    `json:"features_id"`
	Color      string    `json:"color"`
	Popular    bool      `json:"popular"`
	CreatedAt  time.Time `json:"created_at"`
}

// EncodeFeatures serializes a feature list for persistence, dropping blank
// entries the same way the editor does.
func EncodeFeatures(features []string) (string, error) {
	kept := make([]string, 0, len(features))
	for _, f := range features {
		if strings.TrimSpace(f) != "" {
			kept = append(kept, f)
		}
	}
	b, err := json.Marshal(kept)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeFeatures parses a persisted feature list. Malformed or empty text
// decodes to an empty list rather than an error, so an odd row never breaks a
// public page.
func DecodeFeatures(encoded string) []string {
	if encoded == "" {
		return []string{}
	}
	var features []string
	if err := json.Unmarshal([]byte(encoded), &features); err != nil {
		return []string{}
	}
	return features
}
