package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/navigation"
)

// pageCommands names the command that opens each page
var pageCommands = map[navigation.Page]string{
	navigation.PageDashboard:    "dashboard",
	navigation.PageBookings:     "bookings",
	navigation.PagePricing:      "pricing",
	navigation.PageAvailability: "availability",
	navigation.PageLogs:         "logs",
	navigation.PageAlerts:       "alerts",
	navigation.PageSettings:     "settings",
	navigation.PageStaff:        "staff",
}

// MenuCmd creates the menu command
func MenuCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the pages available to the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session.Token() == "" {
				fmt.Fprintln(app.Out, "Not logged in. Available: login, register, forgotPassword, resetPassword")
				return nil
			}

			current := app.Router.Current()
			fmt.Fprintln(app.Out)
			for _, item := range navigation.MenuItems(app.role()) {
				marker := " "
				if item.Page == current {
					marker = ">"
				}
				fmt.Fprintf(app.Out, "%s %-14s %s\n", marker, item.Label, pageCommands[item.Page])
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}
}
