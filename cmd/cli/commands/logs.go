package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// LogsCmd creates the logs command
func LogsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the change history, optionally filtered by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageLogs); err != nil {
				return err
			}

			typeName, _ := cmd.Flags().GetString("type")
			logType := services.LogType(typeName)
			if logType != "" && !slices.Contains(services.LogTypes, logType) {
				return fmt.Errorf("unknown log type %q (expected one of %v)", typeName, services.LogTypes)
			}

			entries, err := services.LoadLogs(app.Ctx, app.Client, app.Notifier, app.Logger)
			if err != nil {
				return err
			}
			entries = services.FilterLogs(entries, logType)

			fmt.Fprintln(app.Out)
			if len(entries) == 0 {
				fmt.Fprintln(app.Out, "No log entries")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				details := e.Details
				if details == "" {
					details = e.Message
				}
				rows = append(rows, []string{e.Timestamp, string(services.ClassifyLog(e)), e.User, e.Action, details})
			}
			if err := writeTable(app.Out, []string{"TIME", "TYPE", "USER", "ACTION", "DETAILS"}, rows); err != nil {
				return err
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "", "Only entries of this type (price, capacity, availability, login, create_staff, update_staff_role, other)")

	return cmd
}
