package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// parseYearMonth reads optional <year> <month> arguments
func parseYearMonth(args []string) (int, int, error) {
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("year must be a positive integer, got: %s", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12, got: %s", args[1])
	}
	return year, month, nil
}

// loadMonth fetches the month named by args, or the current one (today's month on
// first use). prev/next then move it. Pages always refetch on entry.
func loadMonth(app *AppContext, args []string, shift int) error {
	year, month := app.Calendar.Year(), app.Calendar.Month()
	if len(args) == 2 {
		var err error
		if year, month, err = parseYearMonth(args); err != nil {
			return err
		}
	} else if !app.Calendar.Loaded() {
		today := app.today()
		year, month = today.Year(), int(today.Month())
	}

	year, month = services.ShiftMonth(year, month, shift)
	return services.ShowMonth(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, year, month)
}

func monthShift(cmd *cobra.Command) int {
	prev, _ := cmd.Flags().GetBool("prev")
	next, _ := cmd.Flags().GetBool("next")
	switch {
	case prev && !next:
		return -1
	case next && !prev:
		return 1
	}
	return 0
}

func addMonthFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("prev", false, "Move to the previous month")
	cmd.Flags().Bool("next", false, "Move to the next month")
}

// CalendarCmd creates the calendar command
func CalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar [year month]",
		Short: "Show a month as a colour-coded calendar",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts either no arguments or <year> <month>, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageDashboard); err != nil {
				return err
			}
			if err := loadMonth(app, args, monthShift(cmd)); err != nil {
				return err
			}

			list, _ := cmd.Flags().GetBool("list")
			if list {
				fmt.Fprintln(app.Out)
				return writeTable(app.Out, dateHeader, dateRows(app.Calendar.Dates(), app.Cfg.CurrencySymbol))
			}

			grid := services.BuildMonthGrid(app.Calendar, app.Cfg.LowSpaceThreshold)
			renderMonthGrid(app.Out, grid, app.Cfg.CurrencySymbol, app.Color)
			return nil
		},
	}

	addMonthFlags(cmd)
	cmd.Flags().Bool("list", false, "Print one row per date instead of a grid")

	return cmd
}

// EditDateCmd creates the editDate command
func EditDateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editDate <date>",
		Short: "Change a date's price, capacity and availability in one save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageDashboard); err != nil {
				return err
			}
			date := args[0]

			var edit services.DateEdit
			if cmd.Flags().Changed("price") {
				price, _ := cmd.Flags().GetFloat64("price")
				edit.Price = &price
			}
			if cmd.Flags().Changed("capacity") {
				capacity, _ := cmd.Flags().GetInt("capacity")
				edit.Capacity = &capacity
			}
			if cmd.Flags().Changed("availability") {
				value, _ := cmd.Flags().GetString("availability")
				availability := model.Availability(value)
				if availability != model.Available && availability != model.Unavailable {
					return fmt.Errorf("availability must be %q or %q", model.Available, model.Unavailable)
				}
				edit.Availability = &availability
			}
			if cmd.Flags().Changed("manual-override") {
				override, _ := cmd.Flags().GetBool("manual-override")
				edit.ManualOverride = &override
			}

			if err := services.EnsureMonthOf(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, date); err != nil {
				return err
			}

			changes, err := services.SaveDateEdit(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, date, edit)
			if err != nil {
				return err
			}
			app.Logger.Debug("Date edit saved", zap.Any("changes", changes))

			if d, ok := app.Calendar.Find(date); ok {
				fmt.Fprintln(app.Out)
				return writeTable(app.Out, dateHeader, dateRows([]model.CalendarDate{d}, app.Cfg.CurrencySymbol))
			}
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "New price")
	cmd.Flags().Int("capacity", 0, "New total capacity")
	cmd.Flags().String("availability", "", "available or unavailable")
	cmd.Flags().Bool("manual-override", false, "Mark the availability as a manual override")

	return cmd
}
