package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
	"github.com/jakechorley/parking-admin/pkg/session"
)

// LoginCmd creates the login command
func LoginCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageLogin); err != nil {
				return err
			}

			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			username, err := app.prompt("Username", username)
			if err != nil {
				return err
			}
			password, err = app.promptPassword("Password", password)
			if err != nil {
				return err
			}

			resp, err := services.Login(app.Ctx, app.Client, app.Notifier, app.Logger, model.LoginForm{Username: username, Password: password})
			if err != nil {
				return err
			}

			return app.Router.Navigate(navigation.PageDashboard, true, resp.User.Role)
		},
	}

	cmd.Flags().StringP("username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")

	return cmd
}

// RegisterCmd creates the register command
func RegisterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageRegister); err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			name, err := app.prompt("Name", name)
			if err != nil {
				return err
			}
			if email, err = app.prompt("Email", email); err != nil {
				return err
			}
			if password, err = app.promptPassword("Password", password); err != nil {
				return err
			}

			resp, err := services.Register(app.Ctx, app.Client, app.Notifier, app.Logger, model.RegisterForm{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}

			return app.Router.Navigate(navigation.PageDashboard, true, resp.User.Role)
		},
	}

	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().StringP("password", "p", "", "Password, at least 6 characters")

	return cmd
}

// LogoutCmd creates the logout command
func LogoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.Logout(app.Client, app.Notifier, app.Logger); err != nil {
				return err
			}
			return app.Router.Navigate(navigation.PageLogin, false, "")
		},
	}
}

// WhoAmICmd creates the whoami command
func WhoAmICmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := services.WhoAmI(app.Session, app.Logger)
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(app.Out, "Not logged in")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "\nUsername: %s\n", claims.Username)
			if claims.Email != "" {
				fmt.Fprintf(app.Out, "Email:    %s\n", claims.Email)
			}
			fmt.Fprintf(app.Out, "Role:     %s\n", claims.Role)
			if claims.ExpiresAt != nil {
				state := ""
				if claims.Expired(app.today()) {
					state = " (expired)"
				}
				fmt.Fprintf(app.Out, "Expires:  %s%s\n", claims.ExpiresAt.Local().Format(time.DateTime), state)
			}
			fmt.Fprintf(app.Out, "Page:     %s\n\n", app.Router.Current())
			return nil
		},
	}
}

// ForgotPasswordCmd creates the forgotPassword command
func ForgotPasswordCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forgotPassword <email>",
		Short: "Email a password reset code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageForgotPassword); err != nil {
				return err
			}
			return services.ForgotPassword(app.Ctx, app.Client, app.Notifier, app.Logger, model.ForgotPasswordForm{Email: args[0]})
		},
	}
}

// ResetPasswordCmd creates the resetPassword command
func ResetPasswordCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resetPassword <email> <code>",
		Short: "Set a new password using an emailed reset code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageResetPassword); err != nil {
				return err
			}

			password, _ := cmd.Flags().GetString("password")
			confirm, _ := cmd.Flags().GetString("confirm")

			password, err := app.promptPassword("New password", password)
			if err != nil {
				return err
			}
			if confirm, err = app.promptPassword("Confirm password", confirm); err != nil {
				return err
			}

			form := model.ResetPasswordForm{Email: args[0], Code: args[1], Password: password, ConfirmPassword: confirm}
			if err := services.ResetPassword(app.Ctx, app.Client, app.Notifier, app.Logger, form); err != nil {
				return err
			}

			return app.Router.Navigate(navigation.PageLogin, false, "")
		},
	}

	cmd.Flags().StringP("password", "p", "", "New password (prompted when omitted)")
	cmd.Flags().String("confirm", "", "Password confirmation (prompted when omitted)")

	return cmd
}

// VerifyEmailCmd creates the verifyEmail command
func VerifyEmailCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verifyEmail <token>",
		Short: "Confirm an email address with the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return services.VerifyEmail(app.Ctx, app.Client, app.Notifier, app.Logger, args[0])
		},
	}
}
