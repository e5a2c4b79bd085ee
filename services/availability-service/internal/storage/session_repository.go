package storage

import (
	"context"
	"time"

	"github.com/md-rashed-zaman/interviewbook/libs/db"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

type SessionRepository struct {
	pool *db.Pool
}

func NewSessionRepository(pool *db.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// ListSessions returns every session of the expert overlapping [from, to), whatever its status.
// Deciding which statuses block is left to the slot engine.
func (r *SessionRepository) ListSessions(ctx context.Context, expertID string, from, to time.Time) ([]model.BookedSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, start_time, end_time, status
		FROM interview_sessions
		WHERE expert_id = $1
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time ASC
	`, expertID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.BookedSession
	for rows.Next() {
		var s model.BookedSession
		if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Status); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return sessions, nil
}
