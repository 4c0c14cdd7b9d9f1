package models

import "time"

// WatchlistItem — контент в списке «смотреть позже» профиля.
// Пара (ProfileID, ContentID) уникальна.
type WatchlistItem struct {
	ProfileID int64       `json:"profile_id"`
	ContentID int64       `json:"content_id"`
	Title     string      `json:"title"`
	Kind      ContentKind `json:"kind"`
	DateAdded time.Time   `json:"date_added"`
}
