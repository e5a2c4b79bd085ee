package profiles

import (
	"context"
	"errors"

	"github.com/md-rashed-zaman/interviewbook/services/availability-service/internal/model"
)

// ErrNotFound means the expert has no availability on record.
var ErrNotFound = errors.New("expert availability not found")

type Source interface {
	GetAvailability(ctx context.Context, expertID string) (model.ProfileAvailability, error)
}
