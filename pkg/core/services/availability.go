package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// AvailabilitySummary buckets the loaded dates by how many spaces are left
type AvailabilitySummary struct {
	Plenty  int // open, more than threshold spaces
	Limited int // open, 1..threshold spaces
	Full    int // closed or no spaces
}

// SummarizeAvailability counts dates per bucket
func SummarizeAvailability(dates []model.CalendarDate, threshold int) AvailabilitySummary {
	var s AvailabilitySummary
	for _, d := range dates {
		remaining := d.Capacity.Remaining
		switch {
		case !d.IsOpen() || remaining <= 0:
			s.Full++
		case remaining > threshold:
			s.Plenty++
		default:
			s.Limited++
		}
	}
	return s
}

// SetAvailability opens or closes one date as a manual override
func SetAvailability(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, date string, availability model.Availability) error {
	if availability != model.Available && availability != model.Unavailable {
		return fmt.Errorf("availability must be %q or %q", model.Available, model.Unavailable)
	}

	logger.Info("Updating availability", zap.String("date", date), zap.String("availability", string(availability)))

	change := func(d *model.CalendarDate) {
		d.Availability = availability
		d.ManualOverride = true
		if availability == model.Available {
			d.StatusColor = "green"
		} else {
			d.StatusColor = "red"
		}
	}
	write := func(ctx context.Context, date string) (*parkingclient.UpdateResult, error) {
		return client.UpdateAvailability(ctx, date, availability, true)
	}

	if err := updateDate(ctx, view, date, change, write); err != nil {
		return fail(n, "Failed to update availability", err)
	}

	n.Notify(LevelSuccess, fmt.Sprintf("%s marked %s", parkingclient.PaddedDate(date), availability))
	return nil
}

// ToggleAvailability flips one date between open and closed and returns the new state
func ToggleAvailability(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, date string) (model.Availability, error) {
	d, ok := view.Find(date)
	if !ok {
		return "", fmt.Errorf("date %s is not in the loaded month", date)
	}

	// the flag decides, a full date can still be open
	next := model.Available
	if d.Availability == model.Available {
		next = model.Unavailable
	}

	if err := SetAvailability(ctx, client, n, logger, view, date, next); err != nil {
		return "", err
	}
	return next, nil
}

// SetCapacity changes one date's total spaces
func SetCapacity(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, date string, total int) error {
	if total < 0 {
		return fmt.Errorf("capacity must not be negative")
	}

	logger.Info("Updating capacity", zap.String("date", date), zap.Int("capacity", total))

	if err := updateDate(ctx, view, date, func(d *model.CalendarDate) { d.Capacity.Total = total }, capacityWriter(client, total)); err != nil {
		return fail(n, "Failed to update capacity", err)
	}

	n.Notify(LevelSuccess, "Capacity updated")
	return nil
}

// ApplyCapacityToAll sets the same total on every loaded date, one request per date in parallel
func ApplyCapacityToAll(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, total int) (*BulkResult, error) {
	if total < 0 {
		return nil, fmt.Errorf("capacity must not be negative")
	}

	dates := view.DateKeys()
	if len(dates) == 0 {
		return nil, fmt.Errorf("no dates loaded")
	}

	logger.Info("Applying capacity to all dates", zap.Int("capacity", total), zap.Int("dates", len(dates)))

	result := runBulk(ctx, dates, func(ctx context.Context, date string) error {
		return updateDate(ctx, view, date, func(d *model.CalendarDate) { d.Capacity.Total = total }, capacityWriter(client, total))
	})

	logger.Info("Capacity update finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", len(result.Failures)))

	return result, notifyBulk(n, "capacity", result)
}

func capacityWriter(client DateUpdater, total int) func(context.Context, string) (*parkingclient.UpdateResult, error) {
	return func(ctx context.Context, date string) (*parkingclient.UpdateResult, error) {
		return client.UpdateCapacity(ctx, date, total)
	}
}
