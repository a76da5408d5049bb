package db

import "context"

// SnapshotStore persists calendar snapshots for price history
type SnapshotStore interface {
	// InsertSnapshots stores all snapshots or none
	InsertSnapshots(ctx context.Context, snapshots []CalendarSnapshot) error
	// GetDateHistory returns every snapshot of date, oldest first
	GetDateHistory(ctx context.Context, date string) ([]CalendarSnapshot, error)
}
