package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/streamflix/internal/models"
	profservice "github.com/magabrotheeeer/streamflix/internal/services/profile"
	"github.com/magabrotheeeer/streamflix/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateContent(ctx context.Context, c *models.Content) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func (m *RepoMock) ListContents(ctx context.Context, f models.ContentFilter) ([]*models.Content, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Content), args.Error(1)
}

func (m *RepoMock) UpdateContent(ctx context.Context, c *models.Content) error {
	return m.Called(ctx, c).Error(0)
}

func (m *RepoMock) DeleteContent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type ProfilesMock struct{ mock.Mock }

func (m *ProfilesMock) Get(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	args := m.Called(ctx, accountID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func movie(id int64, title, genre string, rating int, warnings ...string) *models.Content {
	return &models.Content{
		ID: id, Kind: models.ContentMovie, Title: title, Genre: genre, AgeRating: rating,
		ContentWarnings: warnings, Movie: &models.MovieInfo{Duration: 100},
	}
}

func series(id int64, title, genre string, rating int) *models.Content {
	return &models.Content{
		ID: id, Kind: models.ContentSeries, Title: title, Genre: genre, AgeRating: rating,
		Series: &models.SeriesInfo{TotalSeasons: 1, Seasons: []models.Season{{ID: 5, SeasonNumber: 1}}},
	}
}

func TestContentService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ContentRequest
		setup   func(*RepoMock)
		wantErr error
		anyErr  bool
	}{
		{
			name: "movie",
			req:  models.ContentRequest{Kind: "movie", Title: " Heat ", Genre: "Crime", Duration: 170, AvailableQualities: []string{"hd"}},
			setup: func(r *RepoMock) {
				r.On("CreateContent", mock.Anything, mock.MatchedBy(func(c *models.Content) bool {
					return c.Title == "Heat" && c.Movie != nil && c.Movie.Duration == 170 && c.Series == nil &&
						len(c.AvailableQualities) == 1 && c.AvailableQualities[0] == models.PlanHD
				})).Return(int64(1), nil).Once()
			},
		},
		{
			name: "series with seasons",
			req: models.ContentRequest{Kind: "series", Title: "The Wire", Genre: "Drama", Seasons: []models.SeasonRequest{
				{SeasonNumber: 1, Episodes: []models.EpisodeRequest{{EpisodeNumber: 1, Title: "Pilot"}}},
			}},
			setup: func(r *RepoMock) {
				r.On("CreateContent", mock.Anything, mock.MatchedBy(func(c *models.Content) bool {
					return c.Series != nil && c.Series.TotalSeasons == 1 && c.Series.Seasons[0].TotalEpisodes == 1 && c.Movie == nil
				})).Return(int64(2), nil).Once()
			},
		},
		{
			name:    "duplicate season numbers",
			req:     models.ContentRequest{Kind: "series", Title: "X", Genre: "Drama", Seasons: []models.SeasonRequest{{SeasonNumber: 1}, {SeasonNumber: 1}}},
			setup:   func(*RepoMock) {},
			wantErr: ErrInvalidContent,
		},
		{
			name:    "unknown quality",
			req:     models.ContentRequest{Kind: "movie", Title: "X", Genre: "Drama", AvailableQualities: []string{"8K"}},
			setup:   func(*RepoMock) {},
			wantErr: ErrInvalidContent,
		},
		{
			name: "storage error",
			req:  models.ContentRequest{Kind: "movie", Title: "X", Genre: "Drama"},
			setup: func(r *RepoMock) {
				r.On("CreateContent", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setup(repo)
			svc := NewContentService(repo, new(ProfilesMock), newNoopLogger())

			_, err := svc.Create(context.Background(), tt.req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestContentService_Update(t *testing.T) {
	repo := new(RepoMock)
	svc := NewContentService(repo, new(ProfilesMock), newNoopLogger())
	ctx := context.Background()

	repo.On("GetContent", mock.Anything, int64(2)).Return(series(2, "The Wire", "Drama", 16), nil)
	repo.On("GetContent", mock.Anything, int64(9)).Return(nil, storage.ErrNotFound)

	_, err := svc.Update(ctx, 2, models.ContentRequest{Kind: "movie", Title: "X", Genre: "Drama"})
	assert.ErrorIs(t, err, ErrKindChange)

	_, err = svc.Update(ctx, 9, models.ContentRequest{Kind: "movie", Title: "X", Genre: "Drama"})
	assert.ErrorIs(t, err, ErrContentNotFound)

	repo.On("UpdateContent", mock.Anything, mock.MatchedBy(func(c *models.Content) bool {
		return c.ID == 2 && c.Title == "The Wire (HBO)" && c.Series != nil && len(c.Series.Seasons) == 1
	})).Return(nil).Once()
	got, err := svc.Update(ctx, 2, models.ContentRequest{Kind: "series", Title: "The Wire (HBO)", Genre: "Drama"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Series.Seasons[0].ID)
	repo.AssertExpectations(t)
}

func TestContentService_GetAndDelete(t *testing.T) {
	repo := new(RepoMock)
	svc := NewContentService(repo, new(ProfilesMock), newNoopLogger())
	ctx := context.Background()

	repo.On("GetContent", mock.Anything, int64(1)).Return(nil, storage.ErrNotFound).Once()
	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrContentNotFound)

	repo.On("DeleteContent", mock.Anything, int64(1)).Return(storage.ErrNotFound).Once()
	assert.ErrorIs(t, svc.Delete(ctx, 1), ErrContentNotFound)

	repo.On("DeleteContent", mock.Anything, int64(2)).Return(nil).Once()
	assert.NoError(t, svc.Delete(ctx, 2))

	repo.On("ListContents", mock.Anything, models.ContentFilter{Genre: "Drama"}).Return([]*models.Content{}, nil).Once()
	list, err := svc.List(ctx, models.ContentFilter{Genre: "  Drama "})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContentService_Personalized(t *testing.T) {
	catalog := []*models.Content{
		movie(1, "Heat", "Crime", 16, "violence"),
		movie(2, "Up", "Animation", 6),
		movie(3, "Amelie", "Comedy", 12),
		series(4, "Bluey", "animation", 0),
	}

	tests := []struct {
		name   string
		pref   *models.Preference
		kind   models.ContentKind
		want   []int64
		noCall bool
	}{
		{name: "no preference", kind: "", want: []int64{1, 2, 3, 4}},
		{
			name: "age and genre",
			pref: &models.Preference{ContentType: models.PreferBoth, MinimumAge: 12, PreferredGenres: []string{"ANIMATION", "comedy"}},
			want: []int64{2, 3, 4},
		},
		{
			name: "blocked warnings",
			pref: &models.Preference{ContentType: models.PreferBoth, ContentFilters: []string{"Violence"}},
			want: []int64{2, 3, 4},
		},
		{
			name:   "series only asked for movies",
			pref:   &models.Preference{ContentType: models.PreferSeries},
			kind:   models.ContentMovie,
			noCall: true,
		},
		{
			name:   "movies only",
			pref:   &models.Preference{ContentType: models.PreferMovies},
			kind:   "",
			want:   []int64{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			profiles := new(ProfilesMock)
			profiles.On("Get", mock.Anything, int64(1), int64(7)).Return(&models.Profile{ID: 7, AccountID: 1, Preference: tt.pref}, nil).Once()
			if !tt.noCall {
				repo.On("ListContents", mock.Anything, models.ContentFilter{Kind: tt.kind}).Return(catalog, nil).Once()
			}
			svc := NewContentService(repo, profiles, newNoopLogger())

			got, err := svc.Personalized(context.Background(), 1, 7, tt.kind)
			require.NoError(t, err)
			ids := make([]int64, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.want, ids)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestContentService_PersonalizedForeignProfile(t *testing.T) {
	profiles := new(ProfilesMock)
	profiles.On("Get", mock.Anything, int64(1), int64(7)).Return(nil, profservice.ErrProfileNotFound)
	svc := NewContentService(new(RepoMock), profiles, newNoopLogger())

	_, err := svc.Personalized(context.Background(), 1, 7, "")
	assert.ErrorIs(t, err, profservice.ErrProfileNotFound)
}
