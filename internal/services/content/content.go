// Package services содержит каталог фильмов и сериалов и персональную подборку
// по предпочтениям профиля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

var (
	// ErrContentNotFound — контента с таким ID нет.
	ErrContentNotFound = errors.New("content not found")
	// ErrInvalidContent — запрос не описывает корректный фильм или сериал.
	ErrInvalidContent = errors.New("invalid content")
	// ErrKindChange — вид существующего контента менять нельзя.
	ErrKindChange = errors.New("content kind cannot be changed")
)

// ContentRepository определяет методы хранилища каталога.
type ContentRepository interface {
	CreateContent(ctx context.Context, c *models.Content) (int64, error)
	GetContent(ctx context.Context, contentID int64) (*models.Content, error)
	ListContents(ctx context.Context, f models.ContentFilter) ([]*models.Content, error)
	UpdateContent(ctx context.Context, c *models.Content) error
	DeleteContent(ctx context.Context, contentID int64) error
}

// Profiles отдаёт профиль вызывающего аккаунта.
type Profiles interface {
	Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error)
}

// ContentService управляет каталогом.
type ContentService struct {
	repo     ContentRepository
	profiles Profiles
	log      *slog.Logger
}

// NewContentService создает новый экземпляр ContentService.
func NewContentService(repo ContentRepository, profiles Profiles, log *slog.Logger) *ContentService {
	return &ContentService{repo: repo, profiles: profiles, log: log}
}

// List возвращает каталог по фильтру.
func (s *ContentService) List(ctx context.Context, f models.ContentFilter) ([]*models.Content, error) {
	const op = "services.ContentService.List"
	f.Title = strings.TrimSpace(f.Title)
	f.Genre = strings.TrimSpace(f.Genre)
	contents, err := s.repo.ListContents(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return contents, nil
}

// Get возвращает фильм или сериал со всеми сезонами.
func (s *ContentService) Get(ctx context.Context, contentID int64) (*models.Content, error) {
	const op = "services.ContentService.Get"
	c, err := s.repo.GetContent(ctx, contentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrContentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Create добавляет контент в каталог. Сериал сохраняется вместе с сезонами и эпизодами.
func (s *ContentService) Create(ctx context.Context, req models.ContentRequest) (*models.Content, error) {
	const op = "services.ContentService.Create"
	c, err := req.ToContent()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidContent, err)
	}
	if _, err := s.repo.CreateContent(ctx, c); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w: duplicate season or episode number", op, ErrInvalidContent)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("content created",
		slog.Int64("content_id", c.ID), slog.String("kind", string(c.Kind)), slog.String("title", c.Title))
	return c, nil
}

// Update меняет описание контента. Вид должен совпадать с сохранённым,
// сезоны сериала этим запросом не меняются.
func (s *ContentService) Update(ctx context.Context, contentID int64, req models.ContentRequest) (*models.Content, error) {
	const op = "services.ContentService.Update"
	c, err := req.ToContent()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidContent, err)
	}
	current, err := s.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if current.Kind != c.Kind {
		return nil, fmt.Errorf("%s: %w", op, ErrKindChange)
	}

	c.ID = contentID
	if c.Series != nil {
		c.Series = current.Series
	}
	if err := s.repo.UpdateContent(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrContentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Delete убирает контент из каталога вместе с записями списков и истории.
func (s *ContentService) Delete(ctx context.Context, contentID int64) error {
	const op = "services.ContentService.Delete"
	if err := s.repo.DeleteContent(ctx, contentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrContentNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("content deleted", slog.Int64("content_id", contentID))
	return nil
}

// Personalized подбирает контент вида kind под предпочтения профиля:
// вид контента, возрастной рейтинг, любимые жанры и нежелательные предупреждения.
// Пустой kind — фильмы и сериалы вместе. Профиль без предпочтений видит весь каталог.
func (s *ContentService) Personalized(ctx context.Context, accountID, profileID int64, kind models.ContentKind) ([]*models.Content, error) {
	const op = "services.ContentService.Personalized"
	profile, err := s.profiles.Get(ctx, accountID, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if profile.Preference != nil && kind != "" && !profile.Preference.ContentType.Includes(kind) {
		return []*models.Content{}, nil
	}

	contents, err := s.repo.ListContents(ctx, models.ContentFilter{Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]*models.Content, 0, len(contents))
	for _, c := range contents {
		if c.Suits(profile.Preference) {
			out = append(out, c)
		}
	}
	return out, nil
}
