// Package services содержит список «смотреть позже» профиля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

var (
	// ErrAlreadyInWatchlist — контент уже в списке профиля.
	ErrAlreadyInWatchlist = errors.New("content already in watchlist")
	// ErrNotInWatchlist — контента нет в списке профиля.
	ErrNotInWatchlist = errors.New("content not in watchlist")
	// ErrContentNotFound — контента с таким ID нет в каталоге.
	ErrContentNotFound = errors.New("content not found")
)

// WatchlistRepository определяет методы хранилища списков.
type WatchlistRepository interface {
	AddWatchlistItem(ctx context.Context, profileID, contentID int64, addedAt time.Time) error
	RemoveWatchlistItem(ctx context.Context, profileID, contentID int64) error
	ListWatchlist(ctx context.Context, profileID int64) ([]*models.WatchlistItem, error)
}

// Profiles проверяет, что профиль принадлежит аккаунту.
type Profiles interface {
	Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error)
}

// WatchlistService управляет списками профилей.
type WatchlistService struct {
	repo     WatchlistRepository
	profiles Profiles
	log      *slog.Logger
	now      func() time.Time
}

// NewWatchlistService создает новый экземпляр WatchlistService.
func NewWatchlistService(repo WatchlistRepository, profiles Profiles, log *slog.Logger) *WatchlistService {
	return &WatchlistService{
		repo:     repo,
		profiles: profiles,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List возвращает список профиля.
func (s *WatchlistService) List(ctx context.Context, accountID, profileID int64) ([]*models.WatchlistItem, error) {
	const op = "services.WatchlistService.List"
	if _, err := s.profiles.Get(ctx, accountID, profileID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items, err := s.repo.ListWatchlist(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Add кладёт контент в список профиля.
func (s *WatchlistService) Add(ctx context.Context, accountID, profileID, contentID int64) error {
	const op = "services.WatchlistService.Add"
	if _, err := s.profiles.Get(ctx, accountID, profileID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err := s.repo.AddWatchlistItem(ctx, profileID, contentID, s.now())
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrAlreadyExists):
		return fmt.Errorf("%s: %w", op, ErrAlreadyInWatchlist)
	case errors.Is(err, storage.ErrReferenceMissing):
		return fmt.Errorf("%s: %w", op, ErrContentNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug("watchlist item added", slog.Int64("profile_id", profileID), slog.Int64("content_id", contentID))
	return nil
}

// Remove убирает контент из списка профиля.
func (s *WatchlistService) Remove(ctx context.Context, accountID, profileID, contentID int64) error {
	const op = "services.WatchlistService.Remove"
	if _, err := s.profiles.Get(ctx, accountID, profileID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.RemoveWatchlistItem(ctx, profileID, contentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotInWatchlist)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
