package repository

import (
	"context"
	"time"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

// AddWatchlistItem добавляет контент в список профиля.
// Повторное добавление — storage.ErrAlreadyExists, неизвестный профиль или контент — storage.ErrReferenceMissing.
func (s *Storage) AddWatchlistItem(ctx context.Context, profileID, contentID int64, addedAt time.Time) error {
	const op = "storage.AddWatchlistItem"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO watchlist_items (profile_id, content_id, date_added)
			  VALUES ($1, $2, $3)`
	if _, err := s.q(ctx).ExecContext(ctx, query, profileID, contentID, addedAt); err != nil {
		return mapError(op, err)
	}
	return nil
}

// RemoveWatchlistItem убирает контент из списка. Если его там не было — storage.ErrNotFound.
func (s *Storage) RemoveWatchlistItem(ctx context.Context, profileID, contentID int64) error {
	const op = "storage.RemoveWatchlistItem"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.q(ctx).ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE profile_id = $1 AND content_id = $2`, profileID, contentID)
	return affectedOne(op, res, err)
}

// ListWatchlist возвращает список профиля, последние добавленные первыми.
func (s *Storage) ListWatchlist(ctx context.Context, profileID int64) ([]*models.WatchlistItem, error) {
	const op = "storage.ListWatchlist"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT w.profile_id, w.content_id, c.title, c.kind, w.date_added
			  FROM watchlist_items w
			  JOIN contents c ON c.id = w.content_id
			  WHERE w.profile_id = $1
			  ORDER BY w.date_added DESC, w.content_id`
	rows, err := s.q(ctx).QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*models.WatchlistItem, 0)
	for rows.Next() {
		var it models.WatchlistItem
		if err := rows.Scan(&it.ProfileID, &it.ContentID, &it.Title, &it.Kind, &it.DateAdded); err != nil {
			return nil, mapError(op, err)
		}
		it.DateAdded = it.DateAdded.UTC()
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return items, nil
}
