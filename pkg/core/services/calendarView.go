package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// CalendarView is a page's local copy of one month of calendar dates.
// Optimistic changes and their reverts may land from parallel goroutines.
type CalendarView struct {
	mu     sync.Mutex
	year   int
	month  int
	dates  []model.CalendarDate
	loaded bool
}

// NewCalendarView creates an empty view of the given month (1-12)
func NewCalendarView(year, month int) *CalendarView {
	return &CalendarView{year: year, month: month}
}

// Year returns the year shown
func (v *CalendarView) Year() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.year
}

// Month returns the month shown (1-12)
func (v *CalendarView) Month() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.month
}

// Loaded reports whether the last load succeeded
func (v *CalendarView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Dates returns a copy of the dates shown
func (v *CalendarView) Dates() []model.CalendarDate {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.CalendarDate(nil), v.dates...)
}

// DateKeys returns the padded date of every date shown
func (v *CalendarView) DateKeys() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, len(v.dates))
	for i, d := range v.dates {
		keys[i] = d.Date
	}
	return keys
}

// Find returns the date matching date in either padded or unpadded form
func (v *CalendarView) Find(date string) (model.CalendarDate, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.index(date); i >= 0 {
		return v.dates[i], true
	}
	return model.CalendarDate{}, false
}

// setMonth moves the view to another month and drops its dates
func (v *CalendarView) setMonth(year, month int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.year, v.month = year, month
	v.dates = nil
	v.loaded = false
}

func (v *CalendarView) replace(dates []model.CalendarDate, loaded bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dates = dates
	v.loaded = loaded
}

// apply mutates one date in place and returns its previous value
func (v *CalendarView) apply(date string, change func(*model.CalendarDate)) (model.CalendarDate, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.index(date)
	if i < 0 {
		return model.CalendarDate{}, false
	}
	prev := v.dates[i]
	change(&v.dates[i])
	return prev, true
}

// put overwrites the date with the same key
func (v *CalendarView) put(d model.CalendarDate) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.index(d.Date); i >= 0 {
		v.dates[i] = d
	}
}

func (v *CalendarView) index(date string) int {
	key := parkingclient.PaddedDate(date)
	for i, d := range v.dates {
		if d.Date == key {
			return i
		}
	}
	return -1
}

// LoadCalendar fetches the view's month. On failure the view is left empty and one
// error notification is shown.
func LoadCalendar(ctx context.Context, client CalendarClient, n Notifier, logger *zap.Logger, view *CalendarView) error {
	year, month := view.Year(), view.Month()
	logger.Debug("Loading calendar", zap.Int("year", year), zap.Int("month", month))

	dates, err := client.GetCalendar(ctx, year, month)
	if err != nil {
		view.replace([]model.CalendarDate{}, false)
		return fail(n, "Failed to load calendar data", err)
	}

	view.replace(dates, true)
	logger.Debug("Calendar loaded", zap.Int("dates", len(dates)))
	return nil
}

// updateDate applies change to the view, then issues write. The change is reverted when
// the write fails and replaced by the backend's record when the write returns one.
func updateDate(
	ctx context.Context,
	view *CalendarView,
	date string,
	change func(*model.CalendarDate),
	write func(ctx context.Context, date string) (*parkingclient.UpdateResult, error),
) error {
	prev, ok := view.apply(date, change)
	if !ok {
		return fmt.Errorf("date %s is not loaded", date)
	}

	result, err := write(ctx, prev.Date)
	if err != nil {
		view.put(prev)
		return err
	}

	if result != nil && result.Date.Date == prev.Date {
		view.put(result.Date)
	}
	return nil
}
