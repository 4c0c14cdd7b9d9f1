package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

const contentColumns = `id, kind, title, description, age_rating, image_url, genre,
			      content_warnings, available_qualities, duration`

func scanContent(m *pgtype.Map, row rowScanner) (*models.Content, error) {
	var c models.Content
	var warnings, qualities []string
	var duration sql.NullInt64
	if err := row.Scan(&c.ID, &c.Kind, &c.Title, &c.Description, &c.AgeRating, &c.ImageURL, &c.Genre,
		m.SQLScanner(&warnings), m.SQLScanner(&qualities), &duration); err != nil {
		return nil, err
	}
	c.ContentWarnings = nonNilStrings(warnings)
	c.AvailableQualities = make([]models.PlanType, 0, len(qualities))
	for _, q := range qualities {
		c.AvailableQualities = append(c.AvailableQualities, models.PlanType(q))
	}
	switch c.Kind {
	case models.ContentMovie:
		c.Movie = &models.MovieInfo{Duration: int(duration.Int64)}
	case models.ContentSeries:
		c.Series = &models.SeriesInfo{Seasons: []models.Season{}}
	}
	return &c, nil
}

func qualityStrings(q []models.PlanType) []string {
	out := make([]string, 0, len(q))
	for _, p := range q {
		out = append(out, string(p))
	}
	return out
}

func movieDuration(c *models.Content) sql.NullInt64 {
	if c.Movie == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(c.Movie.Duration), Valid: true}
}

// CreateContent сохраняет фильм или сериал вместе с сезонами и эпизодами
// в одной транзакции. Проставляет ID в c и во вложенные сезоны и эпизоды.
func (s *Storage) CreateContent(ctx context.Context, c *models.Content) (int64, error) {
	const op = "storage.CreateContent"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	err := s.RunInTx(ctx, func(ctx context.Context) error {
		query := `INSERT INTO contents (kind, title, description, age_rating, image_url, genre,
				      content_warnings, available_qualities, duration)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				  RETURNING id`
		if err := s.q(ctx).QueryRowContext(ctx, query,
			string(c.Kind), c.Title, c.Description, c.AgeRating, c.ImageURL, c.Genre,
			nonNilStrings(c.ContentWarnings), qualityStrings(c.AvailableQualities), movieDuration(c)).Scan(&c.ID); err != nil {
			return err
		}
		if c.Series == nil {
			return nil
		}
		for i := range c.Series.Seasons {
			season := &c.Series.Seasons[i]
			if err := s.q(ctx).QueryRowContext(ctx,
				`INSERT INTO seasons (content_id, season_number) VALUES ($1, $2) RETURNING id`,
				c.ID, season.SeasonNumber).Scan(&season.ID); err != nil {
				return err
			}
			for j := range season.Episodes {
				ep := &season.Episodes[j]
				if err := s.q(ctx).QueryRowContext(ctx,
					`INSERT INTO episodes (season_id, episode_number, title, duration) VALUES ($1, $2, $3, $4) RETURNING id`,
					season.ID, ep.EpisodeNumber, ep.Title, ep.Duration).Scan(&ep.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, mapError(op, err)
	}
	return c.ID, nil
}

// GetContent возвращает контент по ID. У сериала загружаются сезоны и эпизоды.
func (s *Storage) GetContent(ctx context.Context, contentID int64) (*models.Content, error) {
	const op = "storage.GetContent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + contentColumns + `
			  FROM contents
			  WHERE id = $1`
	c, err := scanContent(pgtype.NewMap(), s.q(ctx).QueryRowContext(ctx, query, contentID))
	if err != nil {
		return nil, mapError(op, err)
	}
	if err := s.loadSeasons(ctx, []*models.Content{c}); err != nil {
		return nil, mapError(op, err)
	}
	return c, nil
}

// ListContents возвращает каталог по фильтру в порядке добавления.
// Название и жанр сравниваются без учёта регистра.
func (s *Storage) ListContents(ctx context.Context, f models.ContentFilter) ([]*models.Content, error) {
	const op = "storage.ListContents"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + contentColumns + `
			  FROM contents
			  WHERE ($1 = '' OR kind = $1)
			    AND ($2 = '' OR LOWER(title) = LOWER($2))
			    AND ($3 = '' OR LOWER(genre) = LOWER($3))
			  ORDER BY id`
	rows, err := s.q(ctx).QueryContext(ctx, query, string(f.Kind), f.Title, f.Genre)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() { _ = rows.Close() }()

	m := pgtype.NewMap()
	contents := make([]*models.Content, 0)
	for rows.Next() {
		c, err := scanContent(m, rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	if err := s.loadSeasons(ctx, contents); err != nil {
		return nil, mapError(op, err)
	}
	return contents, nil
}

// loadSeasons одним запросом подтягивает сезоны и эпизоды для сериалов из списка.
func (s *Storage) loadSeasons(ctx context.Context, contents []*models.Content) error {
	byID := make(map[int64]*models.Content)
	ids := make([]int64, 0)
	for _, c := range contents {
		if c.Series != nil {
			byID[c.ID] = c
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	query := `SELECT s.content_id, s.id, s.season_number, e.id, e.episode_number, e.title, e.duration
			  FROM seasons s
			  LEFT JOIN episodes e ON e.season_id = s.id
			  WHERE s.content_id = ANY($1)
			  ORDER BY s.content_id, s.season_number, e.episode_number`
	rows, err := s.q(ctx).QueryContext(ctx, query, ids)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var contentID, seasonID int64
		var seasonNumber int
		var episodeID, episodeNumber, episodeDuration sql.NullInt64
		var episodeTitle sql.NullString
		if err := rows.Scan(&contentID, &seasonID, &seasonNumber,
			&episodeID, &episodeNumber, &episodeTitle, &episodeDuration); err != nil {
			return err
		}
		series := byID[contentID].Series
		if n := len(series.Seasons); n == 0 || series.Seasons[n-1].ID != seasonID {
			series.Seasons = append(series.Seasons, models.Season{
				ID: seasonID, SeasonNumber: seasonNumber, Episodes: []models.Episode{},
			})
		}
		if episodeID.Valid {
			season := &series.Seasons[len(series.Seasons)-1]
			season.Episodes = append(season.Episodes, models.Episode{
				ID:            episodeID.Int64,
				EpisodeNumber: int(episodeNumber.Int64),
				Title:         episodeTitle.String,
				Duration:      int(episodeDuration.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range byID {
		c.Series.TotalSeasons = len(c.Series.Seasons)
		for i := range c.Series.Seasons {
			c.Series.Seasons[i].TotalEpisodes = len(c.Series.Seasons[i].Episodes)
		}
	}
	return nil
}

// UpdateContent сохраняет общие поля контента и длительность фильма.
// Вид контента не меняется: строка ищется по ID и виду.
// Сезоны и эпизоды сериала не затрагиваются.
func (s *Storage) UpdateContent(ctx context.Context, c *models.Content) error {
	const op = "storage.UpdateContent"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE contents
			  SET title = $1, description = $2, age_rating = $3, image_url = $4, genre = $5,
			      content_warnings = $6, available_qualities = $7, duration = $8
			  WHERE id = $9 AND kind = $10`
	res, err := s.q(ctx).ExecContext(ctx, query,
		c.Title, c.Description, c.AgeRating, c.ImageURL, c.Genre,
		nonNilStrings(c.ContentWarnings), qualityStrings(c.AvailableQualities), movieDuration(c),
		c.ID, string(c.Kind))
	return affectedOne(op, res, err)
}

// DeleteContent удаляет контент. Сезоны, эпизоды, записи списков и истории удаляются каскадно.
func (s *Storage) DeleteContent(ctx context.Context, contentID int64) error {
	const op = "storage.DeleteContent"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, contentID)
	return affectedOne(op, res, err)
}
