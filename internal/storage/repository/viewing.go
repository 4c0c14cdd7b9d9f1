package repository

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/streamflix/internal/models"
)

const viewingColumns = `id, profile_id, content_id, episode_id, start_time, end_time, last_position, is_completed`

func scanViewing(row rowScanner) (*models.ViewingHistory, error) {
	var v models.ViewingHistory
	var episodeID sql.NullInt64
	var endTime sql.NullTime
	if err := row.Scan(&v.ID, &v.ProfileID, &v.ContentID, &episodeID, &v.StartTime, &endTime,
		&v.LastPosition, &v.IsCompleted); err != nil {
		return nil, err
	}
	v.StartTime = v.StartTime.UTC()
	v.EndTime = timePtr(endTime)
	if episodeID.Valid {
		id := episodeID.Int64
		v.EpisodeID = &id
	}
	return &v, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// CreateViewing сохраняет начатый просмотр и возвращает его ID.
func (s *Storage) CreateViewing(ctx context.Context, v *models.ViewingHistory) (int64, error) {
	const op = "storage.CreateViewing"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO viewing_history (profile_id, content_id, episode_id, start_time, end_time,
			      last_position, is_completed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int64
	if err := s.q(ctx).QueryRowContext(ctx, query,
		v.ProfileID, v.ContentID, nullInt64(v.EpisodeID), v.StartTime, nullTime(v.EndTime),
		v.LastPosition, v.IsCompleted).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// LockViewing читает запись истории и блокирует её до конца транзакции.
func (s *Storage) LockViewing(ctx context.Context, viewingID int64) (*models.ViewingHistory, error) {
	const op = "storage.LockViewing"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + viewingColumns + `
			  FROM viewing_history
			  WHERE id = $1
			  FOR UPDATE`
	v, err := scanViewing(s.q(ctx).QueryRowContext(ctx, query, viewingID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return v, nil
}

// UpdateViewing сохраняет позицию, признак завершения и время окончания.
func (s *Storage) UpdateViewing(ctx context.Context, v *models.ViewingHistory) error {
	const op = "storage.UpdateViewing"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE viewing_history
			  SET last_position = $1, is_completed = $2, end_time = $3
			  WHERE id = $4`
	res, err := s.q(ctx).ExecContext(ctx, query, v.LastPosition, v.IsCompleted, nullTime(v.EndTime), v.ID)
	return affectedOne(op, res, err)
}

// ListViewing возвращает историю профиля, новые просмотры первыми.
func (s *Storage) ListViewing(ctx context.Context, profileID int64) ([]*models.ViewingHistory, error) {
	const op = "storage.ListViewing"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + viewingColumns + `
			  FROM viewing_history
			  WHERE profile_id = $1
			  ORDER BY start_time DESC, id DESC`
	rows, err := s.q(ctx).QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() { _ = rows.Close() }()

	history := make([]*models.ViewingHistory, 0)
	for rows.Next() {
		v, err := scanViewing(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		history = append(history, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return history, nil
}

// LatestUnfinishedViewing возвращает последний незавершённый просмотр контента профилем.
func (s *Storage) LatestUnfinishedViewing(ctx context.Context, profileID, contentID int64) (*models.ViewingHistory, error) {
	const op = "storage.LatestUnfinishedViewing"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + viewingColumns + `
			  FROM viewing_history
			  WHERE profile_id = $1 AND content_id = $2 AND NOT is_completed
			  ORDER BY start_time DESC, id DESC
			  LIMIT 1`
	v, err := scanViewing(s.q(ctx).QueryRowContext(ctx, query, profileID, contentID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return v, nil
}
