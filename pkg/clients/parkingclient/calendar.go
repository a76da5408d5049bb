package parkingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// calendarDateWire accepts both encodings of a calendar date: the list endpoint's
// (date, status, capacity{total,remaining}, remaining) and the update endpoints'
// (id, ISO date, statusColor, capacityTotal, capacityRemaining)
type calendarDateWire struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Price          float64 `json:"price"`
	Availability   string  `json:"availability"`
	Status         string  `json:"status"`
	StatusColor    string  `json:"statusColor"`
	ManualOverride bool    `json:"manualOverride"`
	Capacity       *struct {
		Total     *int `json:"total"`
		Remaining *int `json:"remaining"`
	} `json:"capacity"`
	CapacityTotal     *int `json:"capacityTotal"`
	CapacityRemaining *int `json:"capacityRemaining"`
	Remaining         *int `json:"remaining"`
	Total             *int `json:"total"`
	BookingsCount     int  `json:"bookingsCount"`
}

// calendarDate decodes either wire shape into a model.CalendarDate
type calendarDate model.CalendarDate

func (d *calendarDate) UnmarshalJSON(data []byte) error {
	var w calendarDateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = calendarDate(w.toModel())
	return nil
}

func (w calendarDateWire) toModel() model.CalendarDate {
	// The update endpoints return the date key in id and a full timestamp in date
	key := w.Date
	if looksLikeDate(w.ID) {
		key = w.ID
	}

	var nestedTotal, nestedRemaining *int
	if w.Capacity != nil {
		nestedTotal = w.Capacity.Total
		nestedRemaining = w.Capacity.Remaining
	}

	statusColor := w.StatusColor
	if statusColor == "" {
		statusColor = w.Status
	}

	return model.CalendarDate{
		Date:           PaddedDate(key),
		Price:          w.Price,
		Availability:   model.Availability(w.Availability),
		StatusColor:    statusColor,
		ManualOverride: w.ManualOverride,
		Capacity: model.Capacity{
			Total:     firstInt(w.CapacityTotal, w.Total, nestedTotal),
			Remaining: firstInt(w.CapacityRemaining, w.Remaining, nestedRemaining),
		},
		BookingsCount: w.BookingsCount,
	}
}

func firstInt(candidates ...*int) int {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

func toModelDates(wire []calendarDate) []model.CalendarDate {
	dates := make([]model.CalendarDate, len(wire))
	for i, d := range wire {
		dates[i] = model.CalendarDate(d)
	}
	return dates
}

// UpdateResult is the backend's answer to a single-date update
type UpdateResult struct {
	Message string
	Date    model.CalendarDate
}

type updateResponseWire struct {
	Message string       `json:"message"`
	Date    calendarDate `json:"date"`
}

// GetCalendar fetches every calendar date in the given month (1-12)
func (c *Client) GetCalendar(ctx context.Context, year, month int) ([]model.CalendarDate, error) {
	endpoint := fmt.Sprintf("/date/calendar/%d/%d", year, month)

	wire, err := getList[calendarDate](ctx, c, endpoint, "days")
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar %d-%02d: %w", year, month, err)
	}

	return toModelDates(wire), nil
}

// UpdatePrice sets the price for one date
func (c *Client) UpdatePrice(ctx context.Context, date string, price float64) (*UpdateResult, error) {
	body := map[string]any{
		"dateId":   c.dateID(date),
		"newPrice": price,
	}
	return c.updateDate(ctx, "/date/price/update", body)
}

// UpdateCapacity sets the total capacity for one date
func (c *Client) UpdateCapacity(ctx context.Context, date string, capacity int) (*UpdateResult, error) {
	body := map[string]any{
		"dateId":      c.dateID(date),
		"newCapacity": capacity,
	}
	return c.updateDate(ctx, "/date/capacity/update", body)
}

// UpdateAvailability opens or closes one date. manualOverride marks the change as a staff decision.
func (c *Client) UpdateAvailability(ctx context.Context, date string, availability model.Availability, manualOverride bool) (*UpdateResult, error) {
	body := map[string]any{
		"dateId":          c.dateID(date),
		"newAvailability": availability,
		"manualOverride":  manualOverride,
	}
	return c.updateDate(ctx, "/date/availability/update", body)
}

func (c *Client) updateDate(ctx context.Context, endpoint string, body map[string]any) (*UpdateResult, error) {
	var resp updateResponseWire
	if err := c.request(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, err
	}

	return &UpdateResult{
		Message: resp.Message,
		Date:    model.CalendarDate(resp.Date),
	}, nil
}
