// Package services содержит историю просмотров профиля: начало просмотра,
// сохранение позиции, завершение и продолжение с последнего места.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/streamflix/internal/models"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

var (
	// ErrViewingNotFound — записи истории нет или она принадлежит чужому профилю.
	ErrViewingNotFound = errors.New("viewing history not found")
	// ErrContentNotFound — контента с таким ID нет в каталоге.
	ErrContentNotFound = errors.New("content not found")
	// ErrInvalidEpisode — эпизод указан для фильма или не принадлежит сериалу.
	ErrInvalidEpisode = errors.New("invalid episode")
)

// ViewingRepository определяет методы хранилища истории и чтения каталога.
type ViewingRepository interface {
	GetContent(ctx context.Context, contentID int64) (*models.Content, error)
	CreateViewing(ctx context.Context, v *models.ViewingHistory) (int64, error)
	LockViewing(ctx context.Context, viewingID int64) (*models.ViewingHistory, error)
	UpdateViewing(ctx context.Context, v *models.ViewingHistory) error
	ListViewing(ctx context.Context, profileID int64) ([]*models.ViewingHistory, error)
	LatestUnfinishedViewing(ctx context.Context, profileID, contentID int64) (*models.ViewingHistory, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Profiles проверяет, что профиль принадлежит аккаунту.
type Profiles interface {
	Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error)
}

// ViewingService ведёт историю просмотров.
type ViewingService struct {
	repo     ViewingRepository
	profiles Profiles
	log      *slog.Logger
	now      func() time.Time
}

// NewViewingService создает новый экземпляр ViewingService.
func NewViewingService(repo ViewingRepository, profiles Profiles, log *slog.Logger) *ViewingService {
	return &ViewingService{
		repo:     repo,
		profiles: profiles,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// History возвращает историю профиля, новые просмотры первыми.
func (s *ViewingService) History(ctx context.Context, accountID, profileID int64) ([]*models.ViewingHistory, error) {
	const op = "services.ViewingService.History"
	if _, err := s.profiles.Get(ctx, accountID, profileID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	history, err := s.repo.ListViewing(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return history, nil
}

// Start открывает новую запись истории с нулевой позиции.
// Для сериала эпизод необязателен, но если указан — должен принадлежать сериалу.
func (s *ViewingService) Start(ctx context.Context, accountID, profileID int64, req models.StartViewingRequest) (*models.ViewingHistory, error) {
	const op = "services.ViewingService.Start"
	if _, err := s.profiles.Get(ctx, accountID, profileID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.repo.GetContent(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrContentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.EpisodeID != nil && !c.HasEpisode(*req.EpisodeID) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEpisode)
	}

	v := models.NewViewing(profileID, c.ID, req.EpisodeID, s.now())
	id, err := s.repo.CreateViewing(ctx, v)
	if err != nil {
		if errors.Is(err, storage.ErrReferenceMissing) {
			return nil, fmt.Errorf("%s: %w", op, ErrContentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v.ID = id
	s.log.Debug("viewing started",
		slog.Int64("viewing_history_id", id), slog.Int64("profile_id", profileID), slog.Int64("content_id", c.ID))
	return v, nil
}

// UpdateProgress сохраняет позицию просмотра.
func (s *ViewingService) UpdateProgress(ctx context.Context, accountID, viewingID int64, req models.ProgressRequest) (*models.ViewingHistory, error) {
	const op = "services.ViewingService.UpdateProgress"
	v, err := s.mutate(ctx, accountID, viewingID, func(v *models.ViewingHistory, now time.Time) {
		v.UpdateProgress(req.LastPosition, req.IsCompleted, now)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// Complete отмечает просмотр завершённым. Повторный вызов время окончания не сдвигает.
func (s *ViewingService) Complete(ctx context.Context, accountID, viewingID int64) (*models.ViewingHistory, error) {
	const op = "services.ViewingService.Complete"
	v, err := s.mutate(ctx, accountID, viewingID, func(v *models.ViewingHistory, now time.Time) {
		v.Complete(now)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// mutate блокирует запись, проверяет владельца профиля и сохраняет изменения fn.
func (s *ViewingService) mutate(ctx context.Context, accountID, viewingID int64,
	fn func(v *models.ViewingHistory, now time.Time)) (*models.ViewingHistory, error) {
	var out *models.ViewingHistory
	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		v, err := s.repo.LockViewing(ctx, viewingID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrViewingNotFound
			}
			return err
		}
		if _, err := s.profiles.Get(ctx, accountID, v.ProfileID); err != nil {
			if errors.Is(err, profservice.ErrProfileNotFound) {
				return ErrViewingNotFound
			}
			return err
		}
		fn(v, s.now())
		if err := s.repo.UpdateViewing(ctx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Resume возвращает последний незавершённый просмотр контента профилем.
func (s *ViewingService) Resume(ctx context.Context, accountID, profileID, contentID int64) (*models.ViewingHistory, error) {
	const op = "services.ViewingService.Resume"
	if _, err := s.profiles.Get(ctx, accountID, profileID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v, err := s.repo.LatestUnfinishedViewing(ctx, profileID, contentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrViewingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}
