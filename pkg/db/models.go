package db

import "time"

// CalendarSnapshot records one date's calendar values as seen at TakenAt
type CalendarSnapshot struct {
	ID                string
	TakenAt           time.Time
	Date              string // YYYY-MM-DD
	Price             float64
	CapacityTotal     int
	CapacityRemaining int
	Availability      string
	BookingsCount     int
}
