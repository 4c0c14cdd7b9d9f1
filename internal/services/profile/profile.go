// Package services содержит профили зрителей аккаунта и их предпочтения.
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
	// ErrProfileNotFound — профиля нет или он принадлежит другому аккаунту.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidPreference — предпочтения не удалось разобрать.
	ErrInvalidPreference = errors.New("invalid preference")
)

// ProfileRepository определяет методы хранилища профилей.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, p *models.Profile) (int64, error)
	GetProfile(ctx context.Context, profileID int64) (*models.Profile, error)
	ListProfiles(ctx context.Context, accountID int64) ([]*models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, profileID int64) error
	UpsertPreference(ctx context.Context, profileID int64, p *models.Preference) error
}

// TxRunner выполняет функцию в транзакции.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProfileService управляет профилями аккаунта.
// Чужой профиль для вызывающего неотличим от несуществующего.
type ProfileService struct {
	repo ProfileRepository
	tx   TxRunner
	log  *slog.Logger
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository, tx TxRunner, log *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, tx: tx, log: log}
}

// List возвращает профили аккаунта.
func (s *ProfileService) List(ctx context.Context, accountID int64) ([]*models.Profile, error) {
	const op = "services.ProfileService.List"
	profiles, err := s.repo.ListProfiles(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profiles, nil
}

// Get возвращает профиль, если он принадлежит accountID.
func (s *ProfileService) Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	const op = "services.ProfileService.Get"
	p, err := s.owned(ctx, accountID, profileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Create заводит профиль в аккаунте.
func (s *ProfileService) Create(ctx context.Context, accountID int64, req models.ProfileRequest) (*models.Profile, error) {
	const op = "services.ProfileService.Create"
	p := &models.Profile{
		AccountID:   accountID,
		Name:        strings.TrimSpace(req.Name),
		AgeCategory: req.AgeCategory,
		ImageURL:    req.ImageURL,
	}
	id, err := s.repo.CreateProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.ID = id
	s.log.Info("profile created", slog.Int64("profile_id", id), slog.Int64("account_id", accountID))
	return p, nil
}

// Update меняет имя, возрастную категорию и картинку профиля.
func (s *ProfileService) Update(ctx context.Context, accountID, profileID int64, req models.ProfileRequest) (*models.Profile, error) {
	const op = "services.ProfileService.Update"
	var updated *models.Profile
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.owned(ctx, accountID, profileID)
		if err != nil {
			return err
		}
		p.Name = strings.TrimSpace(req.Name)
		p.AgeCategory = req.AgeCategory
		p.ImageURL = req.ImageURL
		if err := s.repo.UpdateProfile(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete удаляет профиль вместе с его списком и историей просмотров.
func (s *ProfileService) Delete(ctx context.Context, accountID, profileID int64) error {
	const op = "services.ProfileService.Delete"
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, accountID, profileID); err != nil {
			return err
		}
		return s.repo.DeleteProfile(ctx, profileID)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile deleted", slog.Int64("profile_id", profileID))
	return nil
}

// UpdatePreference создаёт или заменяет предпочтения профиля.
func (s *ProfileService) UpdatePreference(ctx context.Context, accountID, profileID int64, req models.PreferenceRequest) (*models.Profile, error) {
	const op = "services.ProfileService.UpdatePreference"
	pref, err := req.ToPreference()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidPreference, err)
	}

	var updated *models.Profile
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.owned(ctx, accountID, profileID)
		if err != nil {
			return err
		}
		if err := s.repo.UpsertPreference(ctx, profileID, pref); err != nil {
			return err
		}
		p.Preference = pref
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (s *ProfileService) owned(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	p, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if p.AccountID != accountID {
		return nil, ErrProfileNotFound
	}
	return p, nil
}
