package parkingclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2025-06-05", "2025-6-5"},
		{"2025-6-5", "2025-6-5"},
		{"2025-12-31", "2025-12-31"},
		{"2025-01-10", "2025-1-10"},
		{"2025-10-01", "2025-10-1"},
		{"2025-06-05T00:00:00Z", "2025-6-5"},
		{"2025-06-05T00:00:00.000Z", "2025-6-5"},
		{"not-a-date", "not-a-date"},
		{"Today", "Today"},
		{"2025/06/05", "2025/06/05"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDateID(tt.input))
		})
	}
}

func TestPaddedDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2025-6-5", "2025-06-05"},
		{"2025-06-05", "2025-06-05"},
		{"2025-06-05T00:00:00.000Z", "2025-06-05"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, PaddedDate(tt.input))
		})
	}
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay("2025-6-5", "2025-06-05"))
	assert.False(t, SameDay("2025-6-5", "2025-06-15"))
}

func TestUpdateCalls_IdenticalIdentifierForBothForms(t *testing.T) {
	calls := []struct {
		name string
		path string
		call func(c *Client, date string) error
	}{
		{"price", "/date/price/update", func(c *Client, date string) error {
			_, err := c.UpdatePrice(context.Background(), date, 12.5)
			return err
		}},
		{"capacity", "/date/capacity/update", func(c *Client, date string) error {
			_, err := c.UpdateCapacity(context.Background(), date, 300)
			return err
		}},
		{"availability", "/date/availability/update", func(c *Client, date string) error {
			_, err := c.UpdateAvailability(context.Background(), date, "unavailable", true)
			return err
		}},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend(t)
			fb.handle(http.MethodPost, tt.path, http.StatusOK, map[string]any{"message": "ok"})
			client, _, _ := newTestClient(t, fb)

			require.NoError(t, tt.call(client, "2025-06-05"))
			require.NoError(t, tt.call(client, "2025-6-5"))

			reqs := fb.captured()
			require.Len(t, reqs, 2)
			assert.Equal(t, "2025-6-5", reqs[0].Body["dateId"])
			assert.Equal(t, reqs[0].Body["dateId"], reqs[1].Body["dateId"])
		})
	}
}

func TestUpdateCalls_PaddedIdentifierOption(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/date/price/update", http.StatusOK, map[string]any{"message": "ok"})
	client, _, _ := newTestClient(t, fb, WithPaddedDateIDs(true))

	_, err := client.UpdatePrice(context.Background(), "2025-6-5", 10)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-05", fb.last().Body["dateId"])
	assert.Equal(t, float64(10), fb.last().Body["newPrice"])
}
