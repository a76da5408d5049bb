package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// SettingsCmd creates the settings command
func SettingsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show profile, business, notification and API key settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageSettings); err != nil {
				return err
			}

			// Sections that loaded are still shown when others failed
			s, err := services.LoadSettings(app.Ctx, app.Client, app.Notifier, app.Logger)
			if s != nil {
				printSettings(app, s)
			}
			return err
		},
	}
}

func printSettings(app *AppContext, s *services.Settings) {
	if p := s.Profile; p != nil {
		fmt.Fprintln(app.Out, "\nProfile")
		fmt.Fprintf(app.Out, "  Username: %s\n  Email:    %s\n  Role:     %s\n", p.Username, p.Email, p.Role)
	}
	if b := s.Business; b != nil {
		fmt.Fprintln(app.Out, "\nBusiness")
		fmt.Fprintf(app.Out, "  Name:     %s\n  Address:  %s\n  Phone:    %s\n  Email:    %s\n  Currency: %s\n",
			b.Name, b.Address, b.Phone, b.Email, b.Currency)
		if b.TaxID != "" {
			fmt.Fprintf(app.Out, "  Tax ID:   %s\n", b.TaxID)
		}
	}
	if n := s.Notifications; n != nil {
		fmt.Fprintln(app.Out, "\nNotifications")
		fmt.Fprintf(app.Out, "  Email alerts:       %s\n  Push notifications: %s\n  Low stock alerts:   %s\n  Weekly reports:     %s\n",
			yesNo(n.EmailAlerts), yesNo(n.PushNotifications), yesNo(n.LowStockAlerts), yesNo(n.WeeklyReports))
	}
	if s.APIKey != "" {
		fmt.Fprintf(app.Out, "\nAPI key: %s\n", s.APIKey)
	}
	fmt.Fprintln(app.Out)
}

// changedString returns a pointer to the flag's value when it was given
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// UpdateProfileCmd creates the updateProfile command
func UpdateProfileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateProfile",
		Short: "Change the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageSettings); err != nil {
				return err
			}
			update := model.ProfileUpdate{
				Username: changedString(cmd, "username"),
				Email:    changedString(cmd, "email"),
				Avatar:   changedString(cmd, "avatar"),
			}
			_, err := services.UpdateProfile(app.Ctx, app.Client, app.Notifier, app.Logger, update)
			return err
		},
	}

	cmd.Flags().String("username", "", "New username")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("avatar", "", "New avatar URL")

	return cmd
}

// UpdateBusinessCmd creates the updateBusiness command
func UpdateBusinessCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateBusiness",
		Short: "Change the business details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageSettings); err != nil {
				return err
			}
			update := model.BusinessUpdate{
				Name:     changedString(cmd, "name"),
				Address:  changedString(cmd, "address"),
				Phone:    changedString(cmd, "phone"),
				Email:    changedString(cmd, "email"),
				Currency: changedString(cmd, "currency"),
				TaxID:    changedString(cmd, "tax-id"),
			}
			_, err := services.UpdateBusiness(app.Ctx, app.Client, app.Notifier, app.Logger, update)
			return err
		},
	}

	cmd.Flags().String("name", "", "Business name")
	cmd.Flags().String("address", "", "Address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("email", "", "Contact email")
	cmd.Flags().String("currency", "", "Three-letter currency code")
	cmd.Flags().String("tax-id", "", "Tax ID")

	return cmd
}

// UpdateNotificationsCmd creates the updateNotifications command
func UpdateNotificationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateNotifications",
		Short: "Turn notification types on or off",
		Long:  "Turn notification types on or off, e.g. --weekly-reports=false",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageSettings); err != nil {
				return err
			}
			update := model.NotificationUpdate{
				EmailAlerts:       changedBool(cmd, "email-alerts"),
				PushNotifications: changedBool(cmd, "push"),
				LowStockAlerts:    changedBool(cmd, "low-stock"),
				WeeklyReports:     changedBool(cmd, "weekly-reports"),
			}
			_, err := services.UpdateNotifications(app.Ctx, app.Client, app.Notifier, app.Logger, update)
			return err
		},
	}

	cmd.Flags().Bool("email-alerts", false, "Email alerts")
	cmd.Flags().Bool("push", false, "Push notifications")
	cmd.Flags().Bool("low-stock", false, "Low space alerts")
	cmd.Flags().Bool("weekly-reports", false, "Weekly reports")

	return cmd
}

// RegenerateAPIKeyCmd creates the regenerateApiKey command
func RegenerateAPIKeyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerateApiKey",
		Short: "Issue a new API key, invalidating the old one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageSettings); err != nil {
				return err
			}
			key, err := services.RegenerateAPIKey(app.Ctx, app.Client, app.Notifier, app.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "API key: %s\n", key)
			return nil
		},
	}
}
