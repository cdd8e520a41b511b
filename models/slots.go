package models

// Slot is one concrete bookable (or taken) window on a specific date,
// derived from a recurring TimeSlot. Planner output is ordered by date,
// then by start time within a date.
type Slot struct {
	Date      string `json:"date"` // "YYYY-MM-DD"
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}
