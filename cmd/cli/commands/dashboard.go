package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// DashboardCmd creates the dashboard command
func DashboardCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's price, spaces and bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageDashboard); err != nil {
				return err
			}

			today := app.today()
			stats, err := services.LoadDashboard(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, today)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("price") {
				price, _ := cmd.Flags().GetFloat64("price")
				if err := services.QuickPriceUpdate(app.Ctx, app.Client, app.Notifier, app.Logger, app.Calendar, today, price); err != nil {
					return err
				}
				stats = services.TodayStats(app.Calendar, today)
			}

			printDashboard(app, stats)
			return nil
		},
	}

	cmd.Flags().Float64("price", 0, "Set today's price")

	return cmd
}

func printDashboard(app *AppContext, stats services.DashboardStats) {
	fmt.Fprintf(app.Out, "\nToday (%s)\n\n", stats.Today)
	if !stats.Found {
		fmt.Fprintln(app.Out, "No calendar data for today")
		return
	}

	symbol := app.Cfg.CurrencySymbol
	status := "open"
	if !stats.Open {
		status = "closed"
	}

	writeTable(app.Out, []string{"PRICE", "SPACES LEFT", "BOOKINGS", "STATUS"}, [][]string{{
		formatPrice(symbol, stats.Price),
		strconv.Itoa(stats.SpacesRemaining),
		strconv.Itoa(stats.BookingsToday),
		status,
	}})
	fmt.Fprintln(app.Out)
}
