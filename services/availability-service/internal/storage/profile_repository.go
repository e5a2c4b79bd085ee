package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/interviewbook/libs/db"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/profiles"
)

// ProfileRepository reads the availability document stored on expert profiles.
type ProfileRepository struct {
	pool *db.Pool
}

func NewProfileRepository(pool *db.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetAvailability(ctx context.Context, expertID string) (model.ProfileAvailability, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `
		SELECT availability
		FROM expert_profiles
		WHERE expert_id = $1
	`, expertID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ProfileAvailability{}, profiles.ErrNotFound
		}
		return model.ProfileAvailability{}, err
	}
	return decodeAvailability(raw)
}

// decodeAvailability treats a NULL or empty document as "no availability" rather than an error.
func decodeAvailability(raw []byte) (model.ProfileAvailability, error) {
	var p model.ProfileAvailability
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.ProfileAvailability{}, fmt.Errorf("decode availability: %w", err)
	}
	return p, nil
}
