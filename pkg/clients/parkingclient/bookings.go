package parkingclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// GetBookings lists every booking
func (c *Client) GetBookings(ctx context.Context) ([]model.Booking, error) {
	bookings, err := getList[model.Booking](ctx, c, "/booking/bookings", "bookings")
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

// GetBookingsByDate lists the bookings touching one date
func (c *Client) GetBookingsByDate(ctx context.Context, date string) ([]model.Booking, error) {
	bookings, err := getList[model.Booking](ctx, c, "/booking/bookings/"+url.PathEscape(PaddedDate(date)), "bookings")
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for %s: %w", date, err)
	}
	return bookings, nil
}
