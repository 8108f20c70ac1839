package models

// Activity is an update/event row, ordered by its date. The date column is a
// plain date, so it stays a string end to end ("2024-01-31").
type Activity struct {
	ID          int    `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	ImageURL    string `json:"image_url"`
}
