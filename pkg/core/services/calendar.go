package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// DayColour is the traffic-light state of a calendar day
type DayColour string

const (
	ColourRed    DayColour = "red"
	ColourYellow DayColour = "yellow"
	ColourGreen  DayColour = "green"
)

// CalendarCell is one square of the month grid. Day is 0 for the padding before the 1st.
type CalendarCell struct {
	Day    int
	Date   string
	Colour DayColour
	Data   *model.CalendarDate
}

// MonthGrid lays a month out in Sunday-first weeks
type MonthGrid struct {
	Year  int
	Month int
	Weeks [][7]CalendarCell
}

// DayColourFor grades a day: red when there is no data, the date is closed or full,
// yellow when fewer than threshold spaces remain, green otherwise
func DayColourFor(d *model.CalendarDate, threshold int) DayColour {
	if d == nil || d.Availability != model.Available {
		return ColourRed
	}
	if d.Capacity.Remaining == 0 {
		return ColourRed
	}
	if d.Capacity.Remaining < threshold {
		return ColourYellow
	}
	return ColourGreen
}

// BuildMonthGrid builds the grid for the view's month
func BuildMonthGrid(view *CalendarView, threshold int) MonthGrid {
	year, month := view.Year(), view.Month()
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]CalendarCell, int(first.Weekday()), int(first.Weekday())+daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		cell := CalendarCell{Day: day, Date: date}
		if d, ok := view.Find(date); ok {
			cell.Data = &d
		}
		cell.Colour = DayColourFor(cell.Data, threshold)
		cells = append(cells, cell)
	}

	grid := MonthGrid{Year: year, Month: month}
	for start := 0; start < len(cells); start += 7 {
		var week [7]CalendarCell
		copy(week[:], cells[start:min(start+7, len(cells))])
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

// ShiftMonth moves (year, month) by delta months
func ShiftMonth(year, month, delta int) (int, int) {
	t := time.Date(year, time.Month(month)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), int(t.Month())
}

// ChangeMonth moves the view by delta months and loads the new month
func ChangeMonth(ctx context.Context, client CalendarClient, n Notifier, logger *zap.Logger, view *CalendarView, delta int) error {
	year, month := ShiftMonth(view.Year(), view.Month(), delta)
	view.setMonth(year, month)
	return LoadCalendar(ctx, client, n, logger, view)
}

// ShowMonth moves the view to (year, month) and fetches it, whether or not it is already held
func ShowMonth(ctx context.Context, client CalendarClient, n Notifier, logger *zap.Logger, view *CalendarView, year, month int) error {
	view.setMonth(year, month)
	return LoadCalendar(ctx, client, n, logger, view)
}

// EnsureMonth loads (year, month) unless the view already holds it
func EnsureMonth(ctx context.Context, client CalendarClient, n Notifier, logger *zap.Logger, view *CalendarView, year, month int) error {
	if view.Loaded() && view.Year() == year && view.Month() == month {
		return nil
	}
	view.setMonth(year, month)
	return LoadCalendar(ctx, client, n, logger, view)
}

// EnsureMonthOf loads the month containing date, given in either padded or unpadded form
func EnsureMonthOf(ctx context.Context, client CalendarClient, n Notifier, logger *zap.Logger, view *CalendarView, date string) error {
	t, err := time.Parse(time.DateOnly, parkingclient.PaddedDate(date))
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return EnsureMonth(ctx, client, n, logger, view, t.Year(), int(t.Month()))
}
