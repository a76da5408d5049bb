package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/db"
)

// SnapshotCalendar stores the loaded month's values so price changes can be traced later
func SnapshotCalendar(ctx context.Context, store db.SnapshotStore, n Notifier, logger *zap.Logger, view *CalendarView, now time.Time) (int, error) {
	if !view.Loaded() {
		return 0, errors.New("calendar is not loaded")
	}

	dates := view.Dates()
	snapshots := make([]db.CalendarSnapshot, 0, len(dates))
	for _, d := range dates {
		snapshots = append(snapshots, db.CalendarSnapshot{
			ID:                uuid.NewString(),
			TakenAt:           now,
			Date:              d.Date,
			Price:             d.Price,
			CapacityTotal:     d.Capacity.Total,
			CapacityRemaining: d.Capacity.Remaining,
			Availability:      string(d.Availability),
			BookingsCount:     d.BookingsCount,
		})
	}

	logger.Info("Saving calendar snapshot",
		zap.Int("year", view.Year()),
		zap.Int("month", view.Month()),
		zap.Int("dates", len(snapshots)))

	if err := store.InsertSnapshots(ctx, snapshots); err != nil {
		return 0, fail(n, "Failed to save snapshot", err)
	}

	n.Notify(LevelSuccess, fmt.Sprintf("Saved snapshot of %d dates", len(snapshots)))
	return len(snapshots), nil
}

// PriceChange is a point where a date's recorded price differs from the previous snapshot
type PriceChange struct {
	TakenAt time.Time
	Price   float64
	Delta   float64
}

// PriceHistory returns the recorded price changes for a date, oldest first.
// Consecutive snapshots with the same price collapse into the first.
func PriceHistory(ctx context.Context, store db.SnapshotStore, logger *zap.Logger, date string) ([]PriceChange, error) {
	padded := parkingclient.PaddedDate(date)
	if _, err := time.Parse("2006-01-02", padded); err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}

	logger.Debug("Loading price history", zap.String("date", padded))

	snapshots, err := store.GetDateHistory(ctx, padded)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", padded, err)
	}

	changes := []PriceChange{}
	for i, s := range snapshots {
		if i > 0 && s.Price == snapshots[i-1].Price {
			continue
		}
		change := PriceChange{TakenAt: s.TakenAt, Price: s.Price}
		if len(changes) > 0 {
			change.Delta = s.Price - changes[len(changes)-1].Price
		}
		changes = append(changes, change)
	}
	return changes, nil
}
