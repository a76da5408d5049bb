package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// DashboardStats summarises today from the loaded month
type DashboardStats struct {
	Today           string
	Found           bool
	Price           float64
	SpacesRemaining int
	BookingsToday   int
	Open            bool
}

// TodayStats reads today's figures from the view. Found is false when today is outside
// the loaded month or the backend has no record for it.
func TodayStats(view *CalendarView, today time.Time) DashboardStats {
	stats := DashboardStats{Today: today.Format(time.DateOnly)}

	d, ok := view.Find(stats.Today)
	if !ok {
		return stats
	}

	stats.Found = true
	stats.Price = d.Price
	stats.SpacesRemaining = d.Capacity.Remaining
	stats.BookingsToday = d.BookingsCount
	stats.Open = d.IsOpen()
	return stats
}

// LoadDashboard loads the month containing today and returns today's figures
func LoadDashboard(ctx context.Context, client CalendarClient, n Notifier, logger *zap.Logger, view *CalendarView, today time.Time) (DashboardStats, error) {
	if view.Year() != today.Year() || view.Month() != int(today.Month()) {
		view.setMonth(today.Year(), int(today.Month()))
	}

	if err := LoadCalendar(ctx, client, n, logger, view); err != nil {
		return TodayStats(view, today), err
	}
	return TodayStats(view, today), nil
}

// QuickPriceUpdate sets today's price from the dashboard
func QuickPriceUpdate(ctx context.Context, client DateUpdater, n Notifier, logger *zap.Logger, view *CalendarView, today time.Time, price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}

	date := today.Format(time.DateOnly)
	if _, ok := view.Find(date); !ok {
		return fmt.Errorf("no calendar data for today (%s)", date)
	}

	logger.Info("Quick price update", zap.String("date", date), zap.Float64("price", price))

	if err := updateDate(ctx, view, date, func(d *model.CalendarDate) { d.Price = price }, priceWriter(client, price)); err != nil {
		return fail(n, "Failed to update price", err)
	}

	n.Notify(LevelSuccess, "Price updated")
	return nil
}
