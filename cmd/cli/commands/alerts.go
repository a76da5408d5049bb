package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// AlertsCmd creates the alerts command
func AlertsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List alerts with counts by severity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAlerts); err != nil {
				return err
			}
			if err := services.LoadAlerts(app.Ctx, app.Client, app.Notifier, app.Logger, app.Alerts); err != nil {
				return err
			}

			alerts := app.Alerts.Alerts()
			counts := services.CountAlerts(alerts)
			fmt.Fprintf(app.Out, "\n%d alerts, %d unread (critical %d, warning %d, info %d)\n\n",
				counts.Total, counts.Unread, counts.Critical, counts.Warning, counts.Info)

			if len(alerts) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(alerts))
			for _, a := range alerts {
				unread := ""
				if !a.Read {
					unread = "*"
				}
				rows = append(rows, []string{unread, a.ID, string(a.Severity), a.Date, a.Message})
			}
			if err := writeTable(app.Out, []string{"", "ID", "SEVERITY", "DATE", "MESSAGE"}, rows); err != nil {
				return err
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}
}

// ensureAlerts loads the alerts unless the page already holds some
func ensureAlerts(app *AppContext) error {
	if len(app.Alerts.Alerts()) > 0 {
		return nil
	}
	return services.LoadAlerts(app.Ctx, app.Client, app.Notifier, app.Logger, app.Alerts)
}

// DismissAlertCmd creates the dismissAlert command
func DismissAlertCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dismissAlert <id>",
		Short: "Mark an alert as read and remove it from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAlerts); err != nil {
				return err
			}
			if err := ensureAlerts(app); err != nil {
				return err
			}
			return services.DismissAlert(app.Ctx, app.Client, app.Notifier, app.Logger, app.Alerts, args[0])
		},
	}
}

// AlertDigestCmd creates the alertDigest command
func AlertDigestCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alertDigest",
		Short: "Email the unread alerts grouped by severity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageAlerts); err != nil {
				return err
			}

			recipient, _ := cmd.Flags().GetString("to")
			if recipient == "" {
				recipient = app.Cfg.Digest.Recipient
			}

			if err := services.LoadAlerts(app.Ctx, app.Client, app.Notifier, app.Logger, app.Alerts); err != nil {
				return err
			}

			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				subject, body, ok := services.BuildAlertDigest(app.Alerts.Alerts())
				if !ok {
					fmt.Fprintln(app.Out, "No unread alerts")
					return nil
				}
				fmt.Fprintf(app.Out, "\nTo: %s\nSubject: %s\n\n%s\n", recipient, subject, body)
				return nil
			}

			gmail, err := app.GmailClient()
			if err != nil {
				return err
			}
			_, err = services.SendAlertDigest(gmail, app.Notifier, app.Logger, app.Alerts, recipient)
			return err
		},
	}

	cmd.Flags().String("to", "", "Recipient (defaults to digest.recipient)")
	cmd.Flags().Bool("dry-run", false, "Print the digest instead of sending it")

	return cmd
}
