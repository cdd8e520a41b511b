// File: services/tasks/reminder.go
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velora/config"
	"velora/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask wraps a reminder payload as an asynq task scheduled for
// fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues booking reminders on the Redis-backed
// task queue. It implements booking.ReminderScheduler.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &AsynqReminderScheduler{Client: client}
}

// ScheduleBookingReminder queues a customer reminder ahead of the booking
// start. Bookings starting sooner than the lead time get no reminder.
func (s *AsynqReminderScheduler) ScheduleBookingReminder(ctx context.Context, booking *models.Booking) error {
	lead := time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour
	fireAt := booking.BookingDate.Add(-lead)
	if !fireAt.After(time.Now().UTC()) {
		return nil
	}

	payload := models.ReminderPayload{
		Target:    "user",
		ID:        booking.CustomerID,
		BookingID: booking.ID,
		Title:     "Upcoming booking",
		Body:      fmt.Sprintf("Your booking starts at %s.", booking.BookingDate.Format("Jan 2 15:04")),
		FireDate:  fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
