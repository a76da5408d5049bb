package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// PricingCmd creates the pricing command
func PricingCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing [year month]",
		Short: "List a month's prices and the configured pricing presets",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts either no arguments or <year> <month>, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PagePricing); err != nil {
				return err
			}
			if err := loadMonth(app, args, monthShift(cmd)); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "\nPrices for %s\n\n", monthTitle(app.Calendar))
			if err := writeTable(app.Out, dateHeader, dateRows(app.Calendar.Dates(), app.Cfg.CurrencySymbol)); err != nil {
				return err
			}

			if len(app.Cfg.PricingPresets) > 0 {
				fmt.Fprintln(app.Out, "\nPresets:")
				rows := make([][]string, 0, len(app.Cfg.PricingPresets))
				for _, p := range app.Cfg.PricingPresets {
					change := ""
					if p.Price != nil {
						change = "set " + formatPrice(app.Cfg.CurrencySymbol, *p.Price)
					} else if p.Delta != nil {
						change = fmt.Sprintf("%+g", *p.Delta)
					}
					rows = append(rows, []string{p.Name, p.RRule, change})
				}
				if err := writeTable(app.Out, []string{"NAME", "RULE", "CHANGE"}, rows); err != nil {
					return err
				}
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}

	addMonthFlags(cmd)

	return cmd
}

func monthTitle(view *services.CalendarView) string {
	return time.Date(view.Year(), time.Month(view.Month()), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// SetPriceCmd creates the setPrice command
func SetPriceCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPrice <date> <price>",
		Short: "Set one date's price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PagePricing); err != nil {
				return err
			}

			date := args[0]
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("price must be a number, got: %s", args[1])
			}

			if err := services.EnsureMonthOf(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, date); err != nil {
				return err
			}
			return services.SetPrice(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, date, price)
		},
	}
}

// BulkPriceCmd creates the bulkPrice command
func BulkPriceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulkPrice [date...]",
		Short: "Change the price of many dates at once",
		Long: `Change the price of many dates at once. Dates are chosen from one month either
explicitly, with --all, or with an RFC 5545 rule such as --rrule "FREQ=WEEKLY;BYDAY=SA,SU".

The change is one of --price (set), --delta (add), --up/--down (one configured step)
or --preset (a named preset from the config file, which brings its own rule).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PagePricing); err != nil {
				return err
			}

			if err := loadBulkMonth(app, cmd, args); err != nil {
				return err
			}

			if name, _ := cmd.Flags().GetString("preset"); name != "" {
				preset, ok := app.Cfg.Preset(name)
				if !ok {
					return fmt.Errorf("unknown pricing preset %q", name)
				}
				result, err := services.ApplyPricingPreset(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, preset)
				printBulkResult(app.Out, result)
				return err
			}

			all, _ := cmd.Flags().GetBool("all")
			rule, _ := cmd.Flags().GetString("rrule")
			dates, err := services.SelectDates(app.Calendar, services.DateSelection{All: all, RRule: rule, Dates: args})
			if err != nil {
				return err
			}

			change, value, err := priceChange(app, cmd)
			if err != nil {
				return err
			}

			var result *services.BulkResult
			if change == "set" {
				result, err = services.BulkSetPrice(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, dates, value)
			} else {
				result, err = services.BulkAdjustPrice(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, dates, value)
			}
			printBulkResult(app.Out, result)
			return err
		},
	}

	cmd.Flags().String("month", "", "Month to work on as YYYY-MM (defaults to the loaded or current month)")
	cmd.Flags().Bool("all", false, "Select every date of the month")
	cmd.Flags().String("rrule", "", "Select dates matching an RFC 5545 recurrence rule")
	cmd.Flags().Float64("price", 0, "Set this price")
	cmd.Flags().Float64("delta", 0, "Add this amount (negative to lower)")
	cmd.Flags().Bool("up", false, "Raise by the configured price step")
	cmd.Flags().Bool("down", false, "Lower by the configured price step")
	cmd.Flags().String("preset", "", "Apply a named pricing preset")

	return cmd
}

// loadBulkMonth loads the month a bulk command works on: --month, else the month of the
// first explicit date, else the loaded (or current) month
func loadBulkMonth(app *AppContext, cmd *cobra.Command, dates []string) error {
	if month, _ := cmd.Flags().GetString("month"); month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("month must be YYYY-MM, got: %s", month)
		}
		return services.EnsureMonth(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, t.Year(), int(t.Month()))
	}
	if len(dates) > 0 {
		return services.EnsureMonthOf(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, dates[0])
	}
	return loadMonth(app, nil, 0)
}

// priceChange reads exactly one of --price, --delta, --up and --down
func priceChange(app *AppContext, cmd *cobra.Command) (string, float64, error) {
	var (
		kind  string
		value float64
		count int
	)
	if cmd.Flags().Changed("price") {
		kind, count = "set", count+1
		value, _ = cmd.Flags().GetFloat64("price")
	}
	if cmd.Flags().Changed("delta") {
		kind, count = "adjust", count+1
		value, _ = cmd.Flags().GetFloat64("delta")
	}
	if up, _ := cmd.Flags().GetBool("up"); up {
		kind, count = "adjust", count+1
		value = app.Cfg.PriceStep
	}
	if down, _ := cmd.Flags().GetBool("down"); down {
		kind, count = "adjust", count+1
		value = -app.Cfg.PriceStep
	}

	if count != 1 {
		return "", 0, errors.New("specify exactly one of --price, --delta, --up, --down or --preset")
	}
	return kind, value, nil
}
