package models

import (
	"fmt"
	"strings"
)

// Profile — профиль зрителя внутри аккаунта. У аккаунта может быть несколько профилей.
type Profile struct {
	ID          int64       `json:"profile_id"`
	AccountID   int64       `json:"account_id"`
	Name        string      `json:"name"`
	AgeCategory string      `json:"age_category"`
	ImageURL    string      `json:"image_url"`
	Preference  *Preference `json:"preference,omitempty"`
}

// ContentPreference — какие виды контента показывать профилю.
type ContentPreference string

// Допустимые значения ContentPreference.
const (
	PreferMovies ContentPreference = "movies"
	PreferSeries ContentPreference = "series"
	PreferBoth   ContentPreference = "both"
)

// ParseContentPreference разбирает предпочтение без учёта регистра. Пустая строка — PreferBoth.
func ParseContentPreference(s string) (ContentPreference, error) {
	switch p := ContentPreference(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PreferBoth, nil
	case PreferMovies, PreferSeries, PreferBoth:
		return p, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// Includes сообщает, показывать ли контент вида kind.
func (p ContentPreference) Includes(kind ContentKind) bool {
	switch p {
	case PreferMovies:
		return kind == ContentMovie
	case PreferSeries:
		return kind == ContentSeries
	default:
		return true
	}
}

// Preference — настройки подбора контента для профиля.
type Preference struct {
	PreferredGenres []string          `json:"preferred_genres"`
	ContentType     ContentPreference `json:"content_type"`
	MinimumAge      int               `json:"minimum_age"` // максимальный допустимый возрастной рейтинг, 0 — без ограничения
	ContentFilters  []string          `json:"content_filters"`
}

// ProfileRequest — тело запроса создания и изменения профиля.
type ProfileRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	AgeCategory string `json:"age_category" validate:"required,oneof=kids teen adult"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// PreferenceRequest — тело запроса изменения предпочтений профиля.
type PreferenceRequest struct {
	PreferredGenres []string `json:"preferred_genres"`
	ContentType     string   `json:"content_type" validate:"omitempty,oneof=movies series both"`
	MinimumAge      int      `json:"minimum_age" validate:"min=0,max=21"`
	ContentFilters  []string `json:"content_filters"`
}

// ToPreference собирает Preference из запроса.
func (r PreferenceRequest) ToPreference() (*Preference, error) {
	ct, err := ParseContentPreference(r.ContentType)
	if err != nil {
		return nil, err
	}
	return &Preference{
		PreferredGenres: nonNil(r.PreferredGenres),
		ContentType:     ct,
		MinimumAge:      r.MinimumAge,
		ContentFilters:  nonNil(r.ContentFilters),
	}, nil
}
