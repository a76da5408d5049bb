package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
)

// ensureStaff loads the staff list unless the page already holds it
func ensureStaff(app *AppContext) error {
	if len(app.Staff.Staff()) > 0 {
		return nil
	}
	return services.LoadStaff(app.Ctx, app.Client, app.Notifier, app.Logger, app.Staff)
}

// StaffCmd creates the staff command
func StaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "staff",
		Short: "List staff accounts (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageStaff); err != nil {
				return err
			}
			if err := services.LoadStaff(app.Ctx, app.Client, app.Notifier, app.Logger, app.Staff); err != nil {
				return err
			}

			staff := app.Staff.Staff()
			fmt.Fprintln(app.Out)
			if len(staff) == 0 {
				fmt.Fprintln(app.Out, "No staff members")
				return nil
			}

			rows := make([][]string, 0, len(staff))
			for _, s := range staff {
				rows = append(rows, []string{s.ID, s.Username, s.Email, string(s.Role), strings.Join(s.Permissions, ","), s.Status, s.LastLogin})
			}
			if err := writeTable(app.Out, []string{"ID", "USERNAME", "EMAIL", "ROLE", "PERMISSIONS", "STATUS", "LAST LOGIN"}, rows); err != nil {
				return err
			}
			fmt.Fprintln(app.Out)
			return nil
		},
	}
}

// AddStaffCmd creates the addStaff command
func AddStaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addStaff <username> <email>",
		Short: "Create a staff account (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageStaff); err != nil {
				return err
			}

			role, _ := cmd.Flags().GetString("role")
			password, _ := cmd.Flags().GetString("password")
			password, err := app.promptPassword("Password", password)
			if err != nil {
				return err
			}

			form := model.StaffForm{Username: args[0], Email: args[1], Password: password, Role: model.Role(role)}
			created, err := services.AddStaff(app.Ctx, app.Client, app.Notifier, app.Logger, app.Staff, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Staff ID: %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().String("role", string(model.RoleStaff), "admin or staff")
	cmd.Flags().StringP("password", "p", "", "Initial password (prompted when omitted)")

	return cmd
}

// SetStaffRoleCmd creates the setStaffRole command
func SetStaffRoleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setStaffRole <id> <admin|staff>",
		Short: "Change a staff member's role (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageStaff); err != nil {
				return err
			}
			if err := ensureStaff(app); err != nil {
				return err
			}
			return services.SetStaffRole(app.Ctx, app.Client, app.Notifier, app.Logger, app.Staff, args[0], model.Role(args[1]))
		},
	}
}

// SetStaffPermissionsCmd creates the setStaffPermissions command
func SetStaffPermissionsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setStaffPermissions <id> [permission...]",
		Short: "Replace a staff member's permissions (admin only)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageStaff); err != nil {
				return err
			}
			if err := ensureStaff(app); err != nil {
				return err
			}

			// Accept both "a b" and "a,b"
			var permissions []string
			for _, arg := range args[1:] {
				for _, p := range strings.Split(arg, ",") {
					if p = strings.TrimSpace(p); p != "" {
						permissions = append(permissions, p)
					}
				}
			}
			return services.SetStaffPermissions(app.Ctx, app.Client, app.Notifier, app.Logger, app.Staff, args[0], permissions)
		},
	}
}

// RemoveStaffCmd creates the removeStaff command
func RemoveStaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeStaff <id>",
		Short: "Delete a staff account (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.enterPage(navigation.PageStaff); err != nil {
				return err
			}
			if err := ensureStaff(app); err != nil {
				return err
			}
			return services.RemoveStaff(app.Ctx, app.Client, app.Notifier, app.Logger, app.Staff, args[0])
		},
	}
}
