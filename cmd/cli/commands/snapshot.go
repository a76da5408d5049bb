package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// SnapshotCmd creates the snapshot command
func SnapshotCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [year month]",
		Short: "Record a month's prices and capacity in the database",
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

			database, err := app.Database()
			if err != nil {
				return err
			}
			if err := loadMonth(app, args, 0); err != nil {
				return err
			}

			_, err = services.SnapshotCalendar(app.Ctx, database, app.Notifier, app.Logger, app.Calendar, app.today().UTC())
			return err
		},
	}
}

// PriceHistoryCmd creates the priceHistory command
func PriceHistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "priceHistory <date>",
		Short: "Show how a date's price changed across recorded snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PagePricing); err != nil {
				return err
			}

			database, err := app.Database()
			if err != nil {
				return err
			}

			changes, err := services.PriceHistory(app.Ctx, database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(app.Out)
			if len(changes) == 0 {
				fmt.Fprintf(app.Out, "No snapshots recorded for %s\n", args[0])
				return nil
			}

			symbol := app.Cfg.CurrencySymbol
			rows := make([][]string, 0, len(changes))
			for i, c := range changes {
				delta := ""
				if i > 0 {
					delta = fmt.Sprintf("%+g", c.Delta)
				}
				rows = append(rows, []string{c.TakenAt.Local().Format(time.DateTime), formatPrice(symbol, c.Price), delta})
			}
			if err := writeTable(app.Out, []string{"RECORDED", "PRICE", "CHANGE"}, rows); err != nil {
				return err
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}
}
