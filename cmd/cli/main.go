package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jakechorley/parking-admin/cmd/cli/commands"
	"github.com/jakechorley/parking-admin/internal/config"
	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
	"github.com/jakechorley/parking-admin/pkg/session"
	"github.com/jakechorley/parking-admin/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	noColor bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parkadmin",
		Short: "Parking admin CLI - Manage airport parking prices, capacity and bookings",
		Long: `A CLI for running an airport parking business: daily prices and capacity,
availability, bookings, alerts, staff accounts and settings.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.MarkPersistentFlagRequired("env")

	// Auth pages
	rootCmd.AddCommand(commands.LoginCmd(app))
	rootCmd.AddCommand(commands.RegisterCmd(app))
	rootCmd.AddCommand(commands.LogoutCmd(app))
	rootCmd.AddCommand(commands.WhoAmICmd(app))
	rootCmd.AddCommand(commands.ForgotPasswordCmd(app))
	rootCmd.AddCommand(commands.ResetPasswordCmd(app))
	rootCmd.AddCommand(commands.VerifyEmailCmd(app))

	// Calendar pages
	rootCmd.AddCommand(commands.DashboardCmd(app))
	rootCmd.AddCommand(commands.CalendarCmd(app))
	rootCmd.AddCommand(commands.EditDateCmd(app))
	rootCmd.AddCommand(commands.PricingCmd(app))
	rootCmd.AddCommand(commands.SetPriceCmd(app))
	rootCmd.AddCommand(commands.BulkPriceCmd(app))
	rootCmd.AddCommand(commands.AvailabilityCmd(app))
	rootCmd.AddCommand(commands.ToggleAvailabilityCmd(app))
	rootCmd.AddCommand(commands.SetAvailabilityCmd(app))
	rootCmd.AddCommand(commands.SetCapacityCmd(app))
	rootCmd.AddCommand(commands.ApplyCapacityCmd(app))
	rootCmd.AddCommand(commands.SnapshotCmd(app))
	rootCmd.AddCommand(commands.PriceHistoryCmd(app))

	// Bookings, logs and alerts
	rootCmd.AddCommand(commands.BookingsCmd(app))
	rootCmd.AddCommand(commands.ExportBookingsCmd(app))
	rootCmd.AddCommand(commands.LogsCmd(app))
	rootCmd.AddCommand(commands.AlertsCmd(app))
	rootCmd.AddCommand(commands.DismissAlertCmd(app))
	rootCmd.AddCommand(commands.AlertDigestCmd(app))

	// Settings and staff
	rootCmd.AddCommand(commands.SettingsCmd(app))
	rootCmd.AddCommand(commands.UpdateProfileCmd(app))
	rootCmd.AddCommand(commands.UpdateBusinessCmd(app))
	rootCmd.AddCommand(commands.UpdateNotificationsCmd(app))
	rootCmd.AddCommand(commands.RegenerateAPIKeyCmd(app))
	rootCmd.AddCommand(commands.StaffCmd(app))
	rootCmd.AddCommand(commands.AddStaffCmd(app))
	rootCmd.AddCommand(commands.SetStaffRoleCmd(app))
	rootCmd.AddCommand(commands.SetStaffPermissionsCmd(app))
	rootCmd.AddCommand(commands.RemoveStaffCmd(app))

	rootCmd.AddCommand(commands.MenuCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		// Errors already shown by a page are not repeated
		if !services.Notified(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// initApp sets up config, logger, session, router and the API client.
// Google and database clients are created on first use by the commands that need them.
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()
	app.Out = os.Stdout
	app.In = os.Stdin
	app.Color = !noColor && term.IsTerminal(int(os.Stdout.Fd()))

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, app.Cfg.LogsDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))
	app.Logger.Debug("Configuration loaded",
		zap.String("base_url", app.Cfg.BaseURL),
		zap.String("date_id_format", app.Cfg.DateIDFormat))

	sessionDir, err := app.Cfg.ResolvedSessionDir()
	if err != nil {
		return fmt.Errorf("failed to resolve session directory: %w", err)
	}
	app.Session = session.NewStore(sessionDir, env)
	app.Logger.Debug("Session store ready", zap.String("path", app.Session.Path()))

	notifier := commands.NewConsoleNotifier(os.Stdout, app.Color)
	app.Notifier = notifier

	start := navigation.PageLogin
	if app.Session.Token() != "" {
		start = navigation.PageDashboard
	}
	app.Router = navigation.NewRouter(start, func() {
		notifier.Notify(services.LevelError, parkingclient.UserMessage(parkingclient.ErrUnauthorized))
	})

	app.Client = parkingclient.NewClient(app.Cfg.BaseURL, app.Session, app.Router, app.Logger,
		parkingclient.WithPaddedDateIDs(app.Cfg.PaddedDateIDs()))

	today := time.Now()
	app.Calendar = services.NewCalendarView(today.Year(), int(today.Month()))
	app.Alerts = &services.AlertList{}
	app.Staff = &services.StaffList{}

	return nil
}
