package models

import "time"

// TimeSlot is a recurring weekly open window for a provider.
// StartTime and EndTime are "HH:MM" wall-clock strings on the same day;
// overnight wraparound is not supported.
type TimeSlot struct {
	ID          string    `bson:"id" json:"id"`
	ProviderID  string    `bson:"provider_id" json:"providerId"`
	DayOfWeek   int       `bson:"day_of_week" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime   string    `bson:"start_time" json:"startTime"`
	EndTime     string    `bson:"end_time" json:"endTime"`
	IsAvailable bool      `bson:"is_available" json:"isAvailable"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// Minutes converts the window to a minute-of-day range.
func (ts *TimeSlot) Minutes() (MinuteRange, error) {
	start, err := ParseClock(ts.StartTime)
	if err != nil {
		return MinuteRange{}, err
	}
	end, err := ParseClock(ts.EndTime)
	if err != nil {
		return MinuteRange{}, err
	}
	return MinuteRange{Start: start, End: end}, nil
}
