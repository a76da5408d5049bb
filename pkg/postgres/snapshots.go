package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/parking-admin/pkg/db"
)

// InsertSnapshots inserts calendar snapshots in one transaction
func (d *DB) InsertSnapshots(ctx context.Context, snapshots []db.CalendarSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range snapshots {
		_, err := tx.Exec(ctx, `
			INSERT INTO calendar_snapshot
				(id, taken_at, date, price, capacity_total, capacity_remaining, availability, bookings_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.ID, s.TakenAt.UTC(), s.Date, s.Price, s.CapacityTotal, s.CapacityRemaining, s.Availability, s.BookingsCount)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", s.Date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDateHistory retrieves every snapshot of a date, oldest first
func (d *DB) GetDateHistory(ctx context.Context, date string) ([]db.CalendarSnapshot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, taken_at, date, price::float8, capacity_total, capacity_remaining, availability, bookings_count
		FROM calendar_snapshot
		WHERE date = $1
		ORDER BY taken_at
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []db.CalendarSnapshot
	for rows.Next() {
		var s db.CalendarSnapshot
		var day time.Time
		if err := rows.Scan(&s.ID, &s.TakenAt, &day, &s.Price, &s.CapacityTotal, &s.CapacityRemaining, &s.Availability, &s.BookingsCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.Date = day.Format("2006-01-02")
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
