package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "£45", formatPrice("£", 45))
	assert.Equal(t, "£45.50", formatPrice("£", 45.5))
	assert.Equal(t, "$0", formatPrice("$", 0))
}

func TestWriteTable(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, writeTable(out, []string{"DATE", "PRICE"}, [][]string{
		{"2025-06-01", "£40"},
		{"2025-06-05", "£145"},
	}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "DATE        PRICE", lines[0])
	assert.Equal(t, "----        -----", lines[1])
	assert.Equal(t, "2025-06-05  £145", lines[3])
}

func TestRenderMonthGrid_Plain(t *testing.T) {
	grid := services.MonthGrid{
		Year:  2025,
		Month: 6,
		Weeks: [][7]services.CalendarCell{{
			{Day: 1, Date: "2025-06-01", Colour: services.ColourGreen, Data: &model.CalendarDate{Price: 40}},
			{Day: 2, Date: "2025-06-02", Colour: services.ColourRed},
			{Day: 3, Date: "2025-06-03", Colour: services.ColourYellow, Data: &model.CalendarDate{Price: 12.5}},
		}},
	}

	out := &bytes.Buffer{}
	renderMonthGrid(out, grid, "£", false)

	text := out.String()
	assert.Contains(t, text, "June 2025")
	assert.Contains(t, text, "Sun")
	assert.Contains(t, text, " 1 G")
	assert.Contains(t, text, "£40 G")
	assert.Contains(t, text, "- R")
	assert.Contains(t, text, "£12.50 Y")
	assert.NotContains(t, text, "\033[")
}

func TestRenderMonthGrid_Colour(t *testing.T) {
	grid := services.MonthGrid{
		Year:  2025,
		Month: 6,
		Weeks: [][7]services.CalendarCell{{
			{Day: 1, Colour: services.ColourRed},
		}},
	}

	out := &bytes.Buffer{}
	renderMonthGrid(out, grid, "£", true)
	assert.Contains(t, out.String(), colorRed+" 1")
}

func TestPrintBulkResult(t *testing.T) {
	out := &bytes.Buffer{}
	printBulkResult(out, nil)
	printBulkResult(out, &services.BulkResult{Attempted: 2, Succeeded: 2})
	assert.Empty(t, out.String())

	printBulkResult(out, &services.BulkResult{
		Attempted: 2,
		Succeeded: 1,
		Failures:  []services.BulkFailure{{Key: "2025-06-07", Err: errors.New("Date not found")}},
	})
	assert.Equal(t, "  ✗ 2025-06-07: Date not found\n", out.String())
}

func TestConsoleNotifier(t *testing.T) {
	out := &bytes.Buffer{}
	n := NewConsoleNotifier(out, false)

	n.Notify(services.LevelSuccess, "Price updated")
	n.Notify(services.LevelError, "Failed to update price: Date not found")
	n.Notify(services.LevelInfo, "No changes to save")

	assert.Equal(t, "✓ Price updated\n✗ Failed to update price: Date not found\n• No changes to save\n", out.String())
}
