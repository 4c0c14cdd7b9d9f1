package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

const profileColumns = `p.id, p.account_id, p.name, p.age_category, p.image_url,
			      pp.profile_id, pp.preferred_genres, pp.content_type, pp.minimum_age, pp.content_filters`

// scanProfile читает профиль вместе с предпочтениями из LEFT JOIN.
// Массивы text[] разбираются через pgtype.Map, одна карта на запрос.
func scanProfile(m *pgtype.Map, row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var prefProfileID sql.NullInt64
	var contentType sql.NullString
	var minimumAge sql.NullInt64
	var genres, filters []string
	if err := row.Scan(&p.ID, &p.AccountID, &p.Name, &p.AgeCategory, &p.ImageURL,
		&prefProfileID, m.SQLScanner(&genres), &contentType, &minimumAge, m.SQLScanner(&filters)); err != nil {
		return nil, err
	}
	if prefProfileID.Valid {
		p.Preference = &models.Preference{
			PreferredGenres: nonNilStrings(genres),
			ContentType:     models.ContentPreference(contentType.String),
			MinimumAge:      int(minimumAge.Int64),
			ContentFilters:  nonNilStrings(filters),
		}
	}
	return &p, nil
}

// CreateProfile сохраняет профиль и возвращает его ID.
// Несуществующий аккаунт — storage.ErrReferenceMissing.
func (s *Storage) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	const op = "storage.CreateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO profiles (account_id, name, age_category, image_url)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	if err := s.q(ctx).QueryRowContext(ctx, query,
		p.AccountID, p.Name, p.AgeCategory, p.ImageURL).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// GetProfile возвращает профиль с предпочтениями.
func (s *Storage) GetProfile(ctx context.Context, profileID int64) (*models.Profile, error) {
	const op = "storage.GetProfile"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + profileColumns + `
			  FROM profiles p
			  LEFT JOIN profile_preferences pp ON pp.profile_id = p.id
			  WHERE p.id = $1`
	p, err := scanProfile(pgtype.NewMap(), s.q(ctx).QueryRowContext(ctx, query, profileID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return p, nil
}

// ListProfiles возвращает профили аккаунта в порядке создания.
func (s *Storage) ListProfiles(ctx context.Context, accountID int64) ([]*models.Profile, error) {
	const op = "storage.ListProfiles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + profileColumns + `
			  FROM profiles p
			  LEFT JOIN profile_preferences pp ON pp.profile_id = p.id
			  WHERE p.account_id = $1
			  ORDER BY p.id`
	rows, err := s.q(ctx).QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() { _ = rows.Close() }()

	m := pgtype.NewMap()
	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(m, rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return profiles, nil
}

// UpdateProfile сохраняет имя, возрастную категорию и картинку профиля.
func (s *Storage) UpdateProfile(ctx context.Context, p *models.Profile) error {
	const op = "storage.UpdateProfile"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE profiles
			  SET name = $1, age_category = $2, image_url = $3
			  WHERE id = $4`
	res, err := s.q(ctx).ExecContext(ctx, query, p.Name, p.AgeCategory, p.ImageURL, p.ID)
	return affectedOne(op, res, err)
}

// DeleteProfile удаляет профиль вместе с предпочтениями, списком и историей.
func (s *Storage) DeleteProfile(ctx context.Context, profileID int64) error {
	const op = "storage.DeleteProfile"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	return affectedOne(op, res, err)
}

// UpsertPreference создаёт или заменяет предпочтения профиля.
func (s *Storage) UpsertPreference(ctx context.Context, profileID int64, p *models.Preference) error {
	const op = "storage.UpsertPreference"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO profile_preferences (profile_id, preferred_genres, content_type, minimum_age, content_filters)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (profile_id) DO UPDATE
			  SET preferred_genres = EXCLUDED.preferred_genres,
			      content_type = EXCLUDED.content_type,
			      minimum_age = EXCLUDED.minimum_age,
			      content_filters = EXCLUDED.content_filters`
	_, err := s.q(ctx).ExecContext(ctx, query, profileID,
		nonNilStrings(p.PreferredGenres), string(p.ContentType), p.MinimumAge, nonNilStrings(p.ContentFilters))
	if err != nil {
		return mapError(op, err)
	}
	return nil
}

// affectedOne превращает UPDATE/DELETE без затронутых строк в storage.ErrNotFound.
func affectedOne(op string, res sql.Result, err error) error {
	if err != nil {
		return mapError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapError(op, sql.ErrNoRows)
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
