package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

func formatPrice(symbol string, price float64) string {
	if price == float64(int64(price)) {
		return symbol + strconv.FormatInt(int64(price), 10)
	}
	return symbol + strconv.FormatFloat(price, 'f', 2, 64)
}

// writeTable prints aligned columns
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

var colourCodes = map[services.DayColour]string{
	services.ColourRed:    colorRed,
	services.ColourYellow: colorYellow,
	services.ColourGreen:  colorGreen,
}

var colourLetters = map[services.DayColour]string{
	services.ColourRed:    "R",
	services.ColourYellow: "Y",
	services.ColourGreen:  "G",
}

// renderMonthGrid prints a Sunday-first month with each day's price and status.
// Without colour each day carries an R/Y/G marker instead.
func renderMonthGrid(w io.Writer, grid services.MonthGrid, symbol string, color bool) {
	title := time.Date(grid.Year, time.Month(grid.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	fmt.Fprintf(w, "\n%s\n\n", title)

	for _, day := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		fmt.Fprintf(w, "%-10s", day)
	}
	fmt.Fprintln(w)

	for _, week := range grid.Weeks {
		for _, cell := range week {
			fmt.Fprint(w, gridCell(cell, symbol, color, func(c services.CalendarCell) string {
				return fmt.Sprintf("%2d", c.Day)
			}))
		}
		fmt.Fprintln(w)
		for _, cell := range week {
			fmt.Fprint(w, gridCell(cell, symbol, color, func(c services.CalendarCell) string {
				if c.Data == nil {
					return "-"
				}
				return formatPrice(symbol, c.Data.Price)
			}))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
}

func gridCell(cell services.CalendarCell, symbol string, color bool, text func(services.CalendarCell) string) string {
	if cell.Day == 0 {
		return strings.Repeat(" ", 10)
	}
	s := text(cell)
	if color {
		return fmt.Sprintf("%s%-10s%s", colourCodes[cell.Colour], s, colorReset)
	}
	return fmt.Sprintf("%-10s", s+" "+colourLetters[cell.Colour])
}

func dateRows(dates []model.CalendarDate, symbol string) [][]string {
	rows := make([][]string, 0, len(dates))
	for _, d := range dates {
		override := ""
		if d.ManualOverride {
			override = "manual"
		}
		rows = append(rows, []string{
			d.Date,
			formatPrice(symbol, d.Price),
			string(d.Availability),
			override,
			fmt.Sprintf("%d/%d", d.Capacity.Remaining, d.Capacity.Total),
			strconv.Itoa(d.BookingsCount),
		})
	}
	return rows
}

var dateHeader = []string{"DATE", "PRICE", "AVAILABILITY", "OVERRIDE", "SPACES", "BOOKINGS"}

func bookingRows(bookings []model.Booking, symbol string) [][]string {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []string{
			b.ID,
			b.CustomerName,
			b.CarReg,
			b.ArrivalDate,
			b.ReturnDate,
			formatPrice(symbol, b.Price),
			string(b.Source),
			string(b.Status),
		})
	}
	return rows
}

var bookingHeader = []string{"REFERENCE", "CUSTOMER", "CAR REG", "ARRIVAL", "RETURN", "PRICE", "SOURCE", "STATUS"}

// printBulkResult lists the dates a batch failed on. The aggregate message has
// already been shown by the notifier.
func printBulkResult(w io.Writer, result *services.BulkResult) {
	if result == nil || len(result.Failures) == 0 {
		return
	}
	for _, f := range result.Failures {
		fmt.Fprintf(w, "  ✗ %s: %v\n", f.Key, f.Err)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
