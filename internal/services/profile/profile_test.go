package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/streamflix/internal/models"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

// profileStore — хранилище профилей в памяти.
type profileStore struct {
	mu       sync.Mutex
	nextID   int64
	profiles map[int64]*models.Profile
	failNext error
}

func newProfileStore() *profileStore {
	return &profileStore{profiles: map[int64]*models.Profile{}}
}

func (s *profileStore) fail() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *profileStore) CreateProfile(_ context.Context, p *models.Profile) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return 0, err
	}
	s.nextID++
	cp := *p
	cp.ID = s.nextID
	s.profiles[cp.ID] = &cp
	return cp.ID, nil
}

func (s *profileStore) GetProfile(_ context.Context, id int64) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *profileStore) ListProfiles(_ context.Context, accountID int64) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Profile, 0)
	for id := int64(1); id <= s.nextID; id++ {
		if p, ok := s.profiles[id]; ok && p.AccountID == accountID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *profileStore) UpdateProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *profileStore) DeleteProfile(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *profileStore) UpsertPreference(_ context.Context, id int64, pref *models.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return storage.ErrReferenceMissing
	}
	cp := *pref
	p.Preference = &cp
	return nil
}

type txStub struct{}

func (txStub) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService() (*ProfileService, *profileStore) {
	store := newProfileStore()
	return NewProfileService(store, txStub{}, newNoopLogger()), store
}

func TestProfileService_CreateAndList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, models.ProfileRequest{Name: "  Anna ", AgeCategory: "adult"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", p.Name)
	assert.Equal(t, int64(1), p.AccountID)
	_, err = svc.Create(ctx, 1, models.ProfileRequest{Name: "Kid", AgeCategory: "kids"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, models.ProfileRequest{Name: "Other", AgeCategory: "adult"})
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anna", list[0].Name)
	assert.Equal(t, "Kid", list[1].Name)
}

func TestProfileService_Ownership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, 1, models.ProfileRequest{Name: "Anna", AgeCategory: "adult"})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
	}{
		{name: "get", call: func() error { _, err := svc.Get(ctx, 2, p.ID); return err }},
		{name: "update", call: func() error {
			_, err := svc.Update(ctx, 2, p.ID, models.ProfileRequest{Name: "X", AgeCategory: "adult"})
			return err
		}},
		{name: "delete", call: func() error { return svc.Delete(ctx, 2, p.ID) }},
		{name: "preference", call: func() error {
			_, err := svc.UpdatePreference(ctx, 2, p.ID, models.PreferenceRequest{})
			return err
		}},
		{name: "missing profile", call: func() error { _, err := svc.Get(ctx, 1, p.ID+10); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), ErrProfileNotFound)
		})
	}

	got, err := svc.Get(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
}

func TestProfileService_UpdateAndDelete(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, 1, models.ProfileRequest{Name: "Anna", AgeCategory: "adult"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, p.ID, models.ProfileRequest{Name: "Anna K.", AgeCategory: "teen", ImageURL: "https://img.example/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "teen", updated.AgeCategory)
	assert.Equal(t, "https://img.example/a.png", store.profiles[p.ID].ImageURL)

	require.NoError(t, svc.Delete(ctx, 1, p.ID))
	_, err = svc.Get(ctx, 1, p.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_UpdatePreference(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, 1, models.ProfileRequest{Name: "Anna", AgeCategory: "adult"})
	require.NoError(t, err)

	updated, err := svc.UpdatePreference(ctx, 1, p.ID, models.PreferenceRequest{
		PreferredGenres: []string{"Drama"}, ContentType: "Series", MinimumAge: 16,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Preference)
	assert.Equal(t, models.PreferSeries, updated.Preference.ContentType)
	assert.Empty(t, updated.Preference.ContentFilters)

	// пустой тип — без ограничения по виду
	updated, err = svc.UpdatePreference(ctx, 1, p.ID, models.PreferenceRequest{MinimumAge: 12})
	require.NoError(t, err)
	assert.Equal(t, models.PreferBoth, updated.Preference.ContentType)

	got, err := svc.Get(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Preference.MinimumAge)

	_, err = svc.UpdatePreference(ctx, 1, p.ID, models.PreferenceRequest{ContentType: "cartoons"})
	assert.ErrorIs(t, err, ErrInvalidPreference)
}

func TestProfileService_StorageError(t *testing.T) {
	svc, store := newTestService()
	store.failNext = errors.New("connection reset")

	_, err := svc.Create(context.Background(), 1, models.ProfileRequest{Name: "Anna", AgeCategory: "adult"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProfileNotFound)
}
