// File: database/repository/blocked/interface.go
package blockedRepo

import (
	"context"
	"errors"

	"velora/models"
)

var (
	ErrNotFound = errors.New("blocked date not found")
	// ErrDuplicate is returned when the unique (provider_id, date) index
	// rejects an insert; callers surface this as a conflict.
	ErrDuplicate = errors.New("date already blocked")
)

// BlockedDateRepository stores providers' full-day exclusions.
type BlockedDateRepository interface {
	Create(ctx context.Context, blocked *models.BlockedDate) error
	Delete(ctx context.Context, blockedID string) error
	GetByID(ctx context.Context, blockedID string) (*models.BlockedDate, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.BlockedDate, error)
	// ListInRange returns blocks with date in [fromDate, toDate], dates as "YYYY-MM-DD".
	ListInRange(ctx context.Context, providerID, fromDate, toDate string) ([]models.BlockedDate, error)
	ExistsOnDate(ctx context.Context, providerID, date string) (bool, error)
}
