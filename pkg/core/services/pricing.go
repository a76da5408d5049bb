package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/internal/config"
	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// DateSelection picks dates of the loaded month. All wins over RRule, RRule over Dates.
type DateSelection struct {
	All   bool
	RRule string
	Dates []string
}

// SelectDates resolves a selection against the view. Explicit dates must be loaded.
func SelectDates(view *CalendarView, sel DateSelection) ([]string, error) {
	switch {
	case sel.All:
		return view.DateKeys(), nil

	case sel.RRule != "":
		return selectByRule(view, sel.RRule)

	default:
		selected := make([]string, 0, len(sel.Dates))
		seen := make(map[string]bool)
		for _, date := range sel.Dates {
			d, ok := view.Find(date)
			if !ok {
				return nil, fmt.Errorf("date %s is not in the loaded month", date)
			}
			if !seen[d.Date] {
				seen[d.Date] = true
				selected = append(selected, d.Date)
			}
		}
		return selected, nil
	}
}

// selectByRule returns the loaded dates that are occurrences of an RFC 5545 rule
func selectByRule(view *CalendarView, rule string) ([]string, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}

	monthStart := time.Date(view.Year(), time.Month(view.Month()), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	r.DTStart(monthStart)

	var selected []string
	for _, occurrence := range r.Between(monthStart, monthEnd, true) {
		if d, ok := view.Find(occurrence.Format(time.DateOnly)); ok {
			selected = append(selected, d.Date)
		}
	}
	return selected, nil
}

// SetPrice updates one date's price
func SetPrice(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, date string, price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}

	logger.Info("Updating price", zap.String("date", date), zap.Float64("price", price))

	if err := updateDate(ctx, view, date, func(d *model.CalendarDate) { d.Price = price }, priceWriter(client, price)); err != nil {
		return fail(n, "Failed to update price", err)
	}

	n.Notify(LevelSuccess, "Price updated")
	return nil
}

// BulkSetPrice sets the same price on every date, one request per date in parallel
func BulkSetPrice(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, dates []string, price float64) (*BulkResult, error) {
	if price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	return bulkPrice(ctx, client, n, logger, view, dates, func(model.CalendarDate) float64 { return price })
}

// BulkAdjustPrice moves every date's price by delta, never below zero
func BulkAdjustPrice(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, dates []string, delta float64) (*BulkResult, error) {
	return bulkPrice(ctx, client, n, logger, view, dates, func(d model.CalendarDate) float64 {
		return math.Max(0, d.Price+delta)
	})
}

// ApplyPricingPreset applies a configured preset to the loaded dates its rule matches
func ApplyPricingPreset(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, preset config.PricingPreset) (*BulkResult, error) {
	dates, err := selectByRule(view, preset.RRule)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", preset.Name, err)
	}

	logger.Info("Applying pricing preset",
		zap.String("preset", preset.Name),
		zap.Int("dates", len(dates)))

	if preset.Price != nil {
		return BulkSetPrice(ctx, client, n, logger, view, dates, *preset.Price)
	}
	return BulkAdjustPrice(ctx, client, n, logger, view, dates, *preset.Delta)
}

func bulkPrice(
	ctx context.Context,
	client DateUpdater,
	n Notifier,
	logger *zap.Logger,
	view *CalendarView,
	dates []string,
	priceFor func(model.CalendarDate) float64,
) (*BulkResult, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("no dates selected")
	}

	logger.Info("Bulk price update", zap.Int("dates", len(dates)))

	result := runBulk(ctx, dates, func(ctx context.Context, date string) error {
		var price float64
		change := func(d *model.CalendarDate) {
			price = priceFor(*d)
			d.Price = price
		}
		write := func(ctx context.Context, date string) (*parkingclient.UpdateResult, error) {
			return client.UpdatePrice(ctx, date, price)
		}
		return updateDate(ctx, view, date, change, write)
	})

	logger.Info("Bulk price update finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", len(result.Failures)))

	return result, notifyBulk(n, "price", result)
}

func priceWriter(client DateUpdater, price float64) func(context.Context, string) (*parkingclient.UpdateResult, error) {
	return func(ctx context.Context, date string) (*parkingclient.UpdateResult, error) {
		return client.UpdatePrice(ctx, date, price)
	}
}
