package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// BookingFilter narrows the bookings list. Empty fields match everything.
type BookingFilter struct {
	Query  string // matched case-insensitively against reference, customer name and car reg
	Source model.BookingSource
	Status model.BookingStatus
}

// Matches reports whether b passes the filter
func (f BookingFilter) Matches(b model.Booking) bool {
	if f.Source != "" && b.Source != f.Source {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(b.ID), q) ||
		strings.Contains(strings.ToLower(b.CustomerName), q) ||
		strings.Contains(strings.ToLower(b.CarReg), q)
}

// FilterBookings returns the bookings passing f, in their original order
func FilterBookings(bookings []model.Booking, f BookingFilter) []model.Booking {
	filtered := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Matches(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// Page is one page of a list
type Page[T any] struct {
	Items      []T
	Number     int // 1-based
	TotalPages int
	Total      int
}

// Paginate returns page number (1-based, clamped to the valid range) of items
func Paginate[T any](items []T, number, size int) Page[T] {
	if size < 1 {
		size = 1
	}

	totalPages := (len(items) + size - 1) / size
	if number > totalPages {
		number = totalPages
	}
	if number < 1 {
		number = 1
	}

	start := (number - 1) * size
	end := min(start+size, len(items))
	if start > end {
		start = end
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		TotalPages: totalPages,
		Total:      len(items),
	}
}

// LoadBookings fetches every booking. On failure the list is empty and one error is shown.
func LoadBookings(ctx context.Context, client BookingsClient, n Notifier, logger *zap.Logger) ([]model.Booking, error) {
	bookings, err := client.GetBookings(ctx)
	if err != nil {
		return []model.Booking{}, fail(n, "Failed to load bookings", err)
	}

	logger.Debug("Bookings loaded", zap.Int("count", len(bookings)))
	return bookings, nil
}

// LoadBookingsForDate fetches the bookings touching one date
func LoadBookingsForDate(ctx context.Context, client BookingsClient, n Notifier, logger *zap.Logger, date string) ([]model.Booking, error) {
	bookings, err := client.GetBookingsByDate(ctx, date)
	if err != nil {
		return []model.Booking{}, fail(n, "Failed to load bookings", err)
	}

	logger.Debug("Bookings for date loaded", zap.String("date", date), zap.Int("count", len(bookings)))
	return bookings, nil
}

// BookingExportHeader is the header row of a bookings export
var BookingExportHeader = []string{
	"Booking Ref", "Customer Name", "Email", "Phone", "Car Reg",
	"Arrival", "Return", "Price", "Spaces", "Source", "Status",
}

// BookingExportRows renders bookings as export rows with prices in the given currency
func BookingExportRows(bookings []model.Booking, currencySymbol string) [][]string {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []string{
			b.ID,
			b.CustomerName,
			b.Email,
			b.Phone,
			b.CarReg,
			b.ArrivalDate,
			b.ReturnDate,
			fmt.Sprintf("%s%.2f", currencySymbol, b.Price),
			strconv.Itoa(b.SpacesReserved),
			string(b.Source),
			string(b.Status),
		})
	}
	return rows
}

// WriteBookingsCSV writes a header row and one row per booking
func WriteBookingsCSV(w io.Writer, bookings []model.Booking, currencySymbol string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BookingExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(BookingExportRows(bookings, currencySymbol)); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
