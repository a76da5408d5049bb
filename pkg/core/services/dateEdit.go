package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// DateChanges lists which fields of a date an edit touched
type DateChanges struct {
	Price        bool
	Capacity     bool
	Availability bool // availability or manual override
}

// Any reports whether anything changed
func (c DateChanges) Any() bool {
	return c.Price || c.Capacity || c.Availability
}

// DiffDate compares an edited date with the original
func DiffDate(original, edited model.CalendarDate) DateChanges {
	return DateChanges{
		Price:        edited.Price != original.Price,
		Capacity:     edited.Capacity.Total != original.Capacity.Total,
		Availability: edited.Availability != original.Availability || edited.ManualOverride != original.ManualOverride,
	}
}

// DateEdit holds the fields an operator set in the date editor. Nil fields are unchanged.
type DateEdit struct {
	Price          *float64
	Capacity       *int
	Availability   *model.Availability
	ManualOverride *bool
}

// Apply returns d with the edit applied
func (e DateEdit) Apply(d model.CalendarDate) model.CalendarDate {
	if e.Price != nil {
		d.Price = *e.Price
	}
	if e.Capacity != nil {
		d.Capacity.Total = *e.Capacity
	}
	if e.Availability != nil {
		d.Availability = *e.Availability
	}
	if e.ManualOverride != nil {
		d.ManualOverride = *e.ManualOverride
	}
	return d
}

// SaveDateEdit sends only the changed fields of one date, in parallel. The whole edit is
// reverted if any call fails.
func SaveDateEdit(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, date string, edit DateEdit) (DateChanges, error) {
	original, ok := view.Find(date)
	if !ok {
		return DateChanges{}, fmt.Errorf("date %s is not in the loaded month", date)
	}

	edited := edit.Apply(original)
	if edited.Price < 0 || edited.Capacity.Total < 0 {
		return DateChanges{}, fmt.Errorf("price and capacity must not be negative")
	}

	changes := DiffDate(original, edited)
	if !changes.Any() {
		n.Notify(LevelInfo, "No changes to save")
		return changes, nil
	}

	logger.Info("Saving date edit",
		zap.String("date", original.Date),
		zap.Bool("price", changes.Price),
		zap.Bool("capacity", changes.Capacity),
		zap.Bool("availability", changes.Availability))

	view.put(edited)

	var (
		mu     sync.Mutex
		errs   error
		latest *model.CalendarDate // freshest server record, by completion order
		g      errgroup.Group
	)
	record := func(result *parkingclient.UpdateResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = multierr.Append(errs, err)
			return
		}
		if result != nil && result.Date.Date == original.Date {
			d := result.Date
			latest = &d
		}
	}

	if changes.Price {
		g.Go(func() error {
			record(client.UpdatePrice(ctx, original.Date, edited.Price))
			return nil
		})
	}
	if changes.Capacity {
		g.Go(func() error {
			record(client.UpdateCapacity(ctx, original.Date, edited.Capacity.Total))
			return nil
		})
	}
	if changes.Availability {
		g.Go(func() error {
			record(client.UpdateAvailability(ctx, original.Date, edited.Availability, edited.ManualOverride))
			return nil
		})
	}
	_ = g.Wait()

	if errs != nil {
		view.put(original)
		return changes, fail(n, "Failed to save changes", multierr.Errors(errs)[0])
	}
	if latest != nil {
		view.put(*latest)
	}

	n.Notify(LevelSuccess, "Changes saved successfully")
	return changes, nil
}
