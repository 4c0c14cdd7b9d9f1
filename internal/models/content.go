package models

import (
	"fmt"
	"slices"
	"strings"
)

// ContentKind — вид единицы каталога. Определяет, какая из частей Content заполнена.
type ContentKind string

const (
	// ContentMovie — фильм, заполнена часть Movie.
	ContentMovie ContentKind = "movie"
	// ContentSeries — сериал, заполнена часть Series.
	ContentSeries ContentKind = "series"
)

// ParseContentKind разбирает вид контента без учёта регистра.
func ParseContentKind(s string) (ContentKind, error) {
	switch k := ContentKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ContentMovie, ContentSeries:
		return k, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// Content — фильм или сериал каталога.
// Ровно одна из частей Movie и Series не nil, и она соответствует Kind.
type Content struct {
	ID                 int64       `json:"content_id"`
	Kind               ContentKind `json:"kind"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	AgeRating          int         `json:"age_rating"`
	ImageURL           string      `json:"image_url"`
	Genre              string      `json:"genre"`
	ContentWarnings    []string    `json:"content_warnings"`
	AvailableQualities []PlanType  `json:"available_qualities"`
	Movie              *MovieInfo  `json:"movie,omitempty"`
	Series             *SeriesInfo `json:"series,omitempty"`
}

// MovieInfo — часть, специфичная для фильма.
type MovieInfo struct {
	Duration int `json:"duration"` // минуты
}

// SeriesInfo — часть, специфичная для сериала.
type SeriesInfo struct {
	TotalSeasons int      `json:"total_seasons"`
	Seasons      []Season `json:"seasons"`
}

// Season — сезон сериала.
type Season struct {
	ID            int64     `json:"season_id"`
	SeasonNumber  int       `json:"season_number"`
	TotalEpisodes int       `json:"total_episodes"`
	Episodes      []Episode `json:"episodes"`
}

// Episode — эпизод сезона.
type Episode struct {
	ID            int64  `json:"episode_id"`
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
	Duration      int    `json:"duration"`
}

// Validate проверяет, что заполнена ровно та часть, которую требует Kind.
func (c *Content) Validate() error {
	switch c.Kind {
	case ContentMovie:
		if c.Movie == nil || c.Series != nil {
			return fmt.Errorf("movie must carry movie details only")
		}
	case ContentSeries:
		if c.Series == nil || c.Movie != nil {
			return fmt.Errorf("series must carry series details only")
		}
		seen := make(map[int]bool, len(c.Series.Seasons))
		for _, s := range c.Series.Seasons {
			if s.SeasonNumber <= 0 || seen[s.SeasonNumber] {
				return fmt.Errorf("season numbers must be positive and unique")
			}
			seen[s.SeasonNumber] = true
		}
	default:
		return fmt.Errorf("unknown content kind %q", c.Kind)
	}
	return nil
}

// HasEpisode сообщает, принадлежит ли эпизод сериалу.
func (c *Content) HasEpisode(episodeID int64) bool {
	if c.Series == nil {
		return false
	}
	for _, s := range c.Series.Seasons {
		for _, e := range s.Episodes {
			if e.ID == episodeID {
				return true
			}
		}
	}
	return false
}

// Suits сообщает, подходит ли контент под предпочтения профиля.
// nil-предпочтения пропускают всё.
func (c *Content) Suits(p *Preference) bool {
	if p == nil {
		return true
	}
	if !p.ContentType.Includes(c.Kind) {
		return false
	}
	if p.MinimumAge > 0 && c.AgeRating > p.MinimumAge {
		return false
	}
	if len(p.PreferredGenres) > 0 && !containsFold(p.PreferredGenres, c.Genre) {
		return false
	}
	for _, w := range c.ContentWarnings {
		if containsFold(p.ContentFilters, w) {
			return false
		}
	}
	return true
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool { return strings.EqualFold(v, s) })
}

// ContentFilter — условия выборки каталога. Пустые поля не фильтруют.
type ContentFilter struct {
	Kind  ContentKind
	Title string // точное совпадение без учёта регистра
	Genre string // точное совпадение без учёта регистра
}

// ContentRequest — тело запроса создания и изменения контента.
type ContentRequest struct {
	Kind               string          `json:"kind" validate:"required,oneof=movie series"`
	Title              string          `json:"title" validate:"required,max=200"`
	Description        string          `json:"description" validate:"max=2000"`
	AgeRating          int             `json:"age_rating" validate:"min=0,max=21"`
	ImageURL           string          `json:"image_url" validate:"omitempty,url"`
	Genre              string          `json:"genre" validate:"required,max=50"`
	ContentWarnings    []string        `json:"content_warnings"`
	AvailableQualities []string        `json:"available_qualities" validate:"dive,oneof=SD HD UHD"`
	Duration           int             `json:"duration" validate:"min=0"`
	Seasons            []SeasonRequest `json:"seasons" validate:"dive"`
}

// SeasonRequest — сезон в запросе создания сериала.
type SeasonRequest struct {
	SeasonNumber int              `json:"season_number" validate:"required,min=1"`
	Episodes     []EpisodeRequest `json:"episodes" validate:"dive"`
}

// EpisodeRequest — эпизод в запросе создания сериала.
type EpisodeRequest struct {
	EpisodeNumber int    `json:"episode_number" validate:"required,min=1"`
	Title         string `json:"title" validate:"required,max=200"`
	Duration      int    `json:"duration" validate:"min=0"`
}

// ToContent собирает Content из запроса. Сезоны учитываются только у сериала,
// длительность — только у фильма.
func (r ContentRequest) ToContent() (*Content, error) {
	kind, err := ParseContentKind(r.Kind)
	if err != nil {
		return nil, err
	}
	c := &Content{
		Kind:               kind,
		Title:              strings.TrimSpace(r.Title),
		Description:        r.Description,
		AgeRating:          r.AgeRating,
		ImageURL:           r.ImageURL,
		Genre:              strings.TrimSpace(r.Genre),
		ContentWarnings:    nonNil(r.ContentWarnings),
		AvailableQualities: make([]PlanType, 0, len(r.AvailableQualities)),
	}
	for _, q := range r.AvailableQualities {
		plan, err := ParsePlanType(q)
		if err != nil {
			return nil, err
		}
		c.AvailableQualities = append(c.AvailableQualities, plan)
	}

	switch kind {
	case ContentMovie:
		c.Movie = &MovieInfo{Duration: r.Duration}
	case ContentSeries:
		info := &SeriesInfo{Seasons: make([]Season, 0, len(r.Seasons))}
		for _, sr := range r.Seasons {
			season := Season{SeasonNumber: sr.SeasonNumber, Episodes: make([]Episode, 0, len(sr.Episodes))}
			for _, er := range sr.Episodes {
				season.Episodes = append(season.Episodes, Episode{
					EpisodeNumber: er.EpisodeNumber, Title: er.Title, Duration: er.Duration,
				})
			}
			season.TotalEpisodes = len(season.Episodes)
			info.Seasons = append(info.Seasons, season)
		}
		info.TotalSeasons = len(info.Seasons)
		c.Series = info
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
