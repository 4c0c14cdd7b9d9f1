package models

import "time"

// ViewingHistory — один просмотр контента профилем.
// EpisodeID заполнен только для сериалов. EndTime выставляется при первом завершении
// и дальше не меняется.
type ViewingHistory struct {
	ID           int64      `json:"viewing_history_id"`
	ProfileID    int64      `json:"profile_id"`
	ContentID    int64      `json:"content_id"`
	EpisodeID    *int64     `json:"episode_id,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	LastPosition int        `json:"last_position"` // секунды от начала
	IsCompleted  bool       `json:"is_completed"`
}

// NewViewing начинает просмотр с нулевой позиции.
func NewViewing(profileID, contentID int64, episodeID *int64, now time.Time) *ViewingHistory {
	return &ViewingHistory{
		ProfileID: profileID,
		ContentID: contentID,
		EpisodeID: episodeID,
		StartTime: now.UTC(),
	}
}

// UpdateProgress запоминает позицию. Переход в завершённое состояние фиксирует EndTime.
func (v *ViewingHistory) UpdateProgress(position int, completed bool, now time.Time) {
	v.LastPosition = position
	if completed && v.EndTime == nil {
		end := now.UTC()
		v.EndTime = &end
	}
	v.IsCompleted = completed
}

// Complete отмечает просмотр завершённым.
func (v *ViewingHistory) Complete(now time.Time) {
	v.UpdateProgress(v.LastPosition, true, now)
}

// StartViewingRequest — тело запроса начала просмотра.
type StartViewingRequest struct {
	ContentID int64  `json:"content_id" validate:"required,min=1"`
	EpisodeID *int64 `json:"episode_id" validate:"omitempty,min=1"`
}

// ProgressRequest — тело запроса обновления позиции просмотра.
type ProgressRequest struct {
	LastPosition int  `json:"last_position" validate:"min=0"`
	IsCompleted  bool `json:"is_completed"`
}
