package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// AvailabilityCmd creates the availability command
func AvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability [year month]",
		Short: "Show a month's availability and capacity with a summary",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts either no arguments or <year> <month>, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAvailability); err != nil {
				return err
			}
			if err := loadMonth(app, args, monthShift(cmd)); err != nil {
				return err
			}

			dates := app.Calendar.Dates()
			summary := services.SummarizeAvailability(dates, app.Cfg.LowSpaceThreshold)

			fmt.Fprintf(app.Out, "\nAvailability for %s\n\n", monthTitle(app.Calendar))
			fmt.Fprintf(app.Out, "Plenty of space: %d   Limited: %d   Full or closed: %d\n\n", summary.Plenty, summary.Limited, summary.Full)
			if err := writeTable(app.Out, dateHeader, dateRows(dates, app.Cfg.CurrencySymbol)); err != nil {
				return err
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}

	addMonthFlags(cmd)

	return cmd
}

// ToggleAvailabilityCmd creates the toggleAvailability command
func ToggleAvailabilityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleAvailability <date>",
		Short: "Open or close a date (marked as a manual override)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAvailability); err != nil {
				return err
			}
			if err := services.EnsureMonthOf(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, args[0]); err != nil {
				return err
			}
			_, err := services.ToggleAvailability(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, args[0])
			return err
		},
	}
}

// SetAvailabilityCmd creates the setAvailability command
func SetAvailabilityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setAvailability <date> <available|unavailable>",
		Short: "Open or close a date explicitly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAvailability); err != nil {
				return err
			}
			if err := services.EnsureMonthOf(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, args[0]); err != nil {
				return err
			}
			return services.SetAvailability(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, args[0], model.Availability(args[1]))
		},
	}
}

func parseCapacity(s string) (int, error) {
	capacity, err := strconv.Atoi(s)
	if err != nil || capacity < 0 {
		return 0, fmt.Errorf("capacity must be a non-negative integer, got: %s", s)
	}
	return capacity, nil
}

// SetCapacityCmd creates the setCapacity command
func SetCapacityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setCapacity <date> <total>",
		Short: "Set one date's total capacity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAvailability); err != nil {
				return err
			}
			capacity, err := parseCapacity(args[1])
			if err != nil {
				return err
			}
			if err := services.EnsureMonthOf(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, args[0]); err != nil {
				return err
			}
			return services.SetCapacity(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, args[0], capacity)
		},
	}
}

// ApplyCapacityCmd creates the applyCapacity command
func ApplyCapacityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applyCapacity <total>",
		Short: "Set the same total capacity on every date of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAvailability); err != nil {
				return err
			}
			capacity, err := parseCapacity(args[0])
			if err != nil {
				return err
			}
			if err := loadBulkMonth(app, cmd, nil); err != nil {
				return err
			}

			result, err := services.ApplyCapacityToAll(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, capacity)
			printBulkResult(app.Out, result)
			return err
		},
	}

	cmd.Flags().String("month", "", "Month to work on as YYYY-MM (defaults to the loaded or current month)")

	return cmd
}
