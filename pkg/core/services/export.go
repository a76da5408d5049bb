package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
)

// SheetsExporter writes a table to a new tab of a spreadsheet
type SheetsExporter interface {
	ExportRows(spreadsheetID, tab string, header []string, rows [][]string) error
}

// ExportTabName names the tab a bookings export on day is written to
func ExportTabName(day time.Time) string {
	return "bookings-" + day.Format("2006-01-02")
}

// ExportBookings writes bookings to a new tab of the configured spreadsheet and returns
// the tab name
func ExportBookings(
	exporter SheetsExporter,
	n Notifier,
	logger *zap.Logger,
	spreadsheetID string,
	bookings []model.Booking,
	currencySymbol string,
	now time.Time,
) (string, error) {
	if spreadsheetID == "" {
		return "", errors.New("export.spreadsheetID is not configured")
	}

	tab := ExportTabName(now)
	logger.Info("Exporting bookings to sheet",
		zap.String("spreadsheet", spreadsheetID),
		zap.String("tab", tab),
		zap.Int("bookings", len(bookings)))

	if err := exporter.ExportRows(spreadsheetID, tab, BookingExportHeader, BookingExportRows(bookings, currencySymbol)); err != nil {
		return "", fail(n, "Failed to export bookings", err)
	}

	n.Notify(LevelSuccess, fmt.Sprintf("Exported %d bookings to %s", len(bookings), tab))
	return tab, nil
}
