// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"errors"

	"velora/models"
)

var ErrNotFound = errors.New("time slot not found")

// TimeSlotRepository stores providers' recurring weekly open windows.
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *models.TimeSlot) error
	Update(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, slotID string) error
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.TimeSlot, error)
	// ListByProviderDay returns the provider's available windows for one
	// day of week, sorted by start time.
	ListByProviderDay(ctx context.Context, providerID string, dayOfWeek int) ([]models.TimeSlot, error)
}
