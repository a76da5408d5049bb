package commands

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

func addBookingFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "Only bookings for this date")
	cmd.Flags().StringP("search", "s", "", "Match reference, customer name or car registration")
	cmd.Flags().String("source", "", "Filter by source (Looking4, SkyParks, Direct)")
	cmd.Flags().String("status", "", "Filter by status (New, Confirmed, Completed)")
}

// loadFilteredBookings loads the bookings (all, or one date's) and applies the filter flags
func loadFilteredBookings(app *AppContext, cmd *cobra.Command) ([]model.Booking, error) {
	date, _ := cmd.Flags().GetString("date")
	search, _ := cmd.Flags().GetString("search")
	source, _ := cmd.Flags().GetString("source")
	status, _ := cmd.Flags().GetString("status")

	filter := services.BookingFilter{
		Query:  search,
		Source: model.BookingSource(source),
		Status: model.BookingStatus(status),
	}
	if filter.Source != "" && !slices.Contains(model.BookingSources, filter.Source) {
		return nil, fmt.Errorf("unknown source %q", source)
	}
	if filter.Status != "" && !slices.Contains(model.BookingStatuses, filter.Status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	var (
		bookings []model.Booking
		err      error
	)
	if date != "" {
		bookings, err = services.LoadBookingsForDate(app.Ctx, app.Client, app.Notifier, app.Logger, date)
	} else {
		bookings, err = services.LoadBookings(app.Ctx, app.Client, app.Notifier, app.Logger)
	}
	if err != nil {
		return nil, err
	}

	filtered := services.FilterBookings(bookings, filter)
	app.Logger.Debug("Bookings filtered", zap.Int("loaded", len(bookings)), zap.Int("matching", len(filtered)))
	return filtered, nil
}

// BookingsCmd creates the bookings command
func BookingsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List bookings with search, filters and paging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageBookings); err != nil {
				return err
			}

			bookings, err := loadFilteredBookings(app, cmd)
			if err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString("csv"); path != "" {
				return writeBookingsCSV(app, path, bookings)
			}

			number, _ := cmd.Flags().GetInt("page")
			page := services.Paginate(bookings, number, app.Cfg.PageSize)

			fmt.Fprintln(app.Out)
			if page.Total == 0 {
				fmt.Fprintln(app.Out, "No bookings found")
				return nil
			}
			if err := writeTable(app.Out, bookingHeader, bookingRows(page.Items, app.Cfg.CurrencySymbol)); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "\nPage %d of %d (%d bookings)\n\n", page.Number, page.TotalPages, page.Total)
			return nil
		},
	}

	addBookingFilterFlags(cmd)
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().String("csv", "", "Write every matching booking to this CSV file ('-' for stdout)")

	return cmd
}

func writeBookingsCSV(app *AppContext, path string, bookings []model.Booking) error {
	if path == "-" {
		return services.WriteBookingsCSV(app.Out, bookings, app.Cfg.CurrencySymbol)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := services.WriteBookingsCSV(f, bookings, app.Cfg.CurrencySymbol); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	app.Notifier.Notify(services.LevelSuccess, fmt.Sprintf("Exported %d bookings to %s", len(bookings), path))
	return nil
}

// ExportBookingsCmd creates the exportBookings command
func ExportBookingsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportBookings",
		Short: "Export matching bookings to a new tab of the configured Google Sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageBookings); err != nil {
				return err
			}

			spreadsheetID, _ := cmd.Flags().GetString("spreadsheet")
			if spreadsheetID == "" {
				spreadsheetID = app.Cfg.Export.SpreadsheetID
			}

			bookings, err := loadFilteredBookings(app, cmd)
			if err != nil {
				return err
			}

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			_, err = services.ExportBookings(sheets, app.Notifier, app.Logger, spreadsheetID, bookings, app.Cfg.CurrencySymbol, app.today())
			return err
		},
	}

	addBookingFilterFlags(cmd)
	cmd.Flags().String("spreadsheet", "", "Spreadsheet ID (defaults to export.spreadsheetID)")

	return cmd
}
