// Package user implements the user management commands.
package user

import (
	"sort"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"github.com/venturelinkhq/venturelink/cmd"
	"github.com/venturelinkhq/venturelink/pkg/backend"
	"github.com/venturelinkhq/venturelink/pkg/proto"
)

// Command is the user command.
var Command = &cobra.Command{
	Use:                "user",
	Aliases:            []string{"users"},
	Short:              "Manage users",
	PersistentPreRunE:  cmd.InitBackendContext,
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	var admin bool
	var displayName string
	var password string
	userCreateCommand := &cobra.Command{
		Use:   "create HANDLE",
		Short: "Create a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]

			opts := proto.UserOptions{
				Admin:       admin,
				DisplayName: displayName,
				Password:    password,
			}

			_, err := be.CreateUser(ctx, handle, opts)
			return err
		},
	}

	userCreateCommand.Flags().BoolVarP(&admin, "admin", "a", false, "make the user an admin")
	userCreateCommand.Flags().StringVarP(&displayName, "display-name", "n", "", "set the user's display name")
	userCreateCommand.Flags().StringVarP(&password, "password", "p", "", "set the user's password")

	userDeleteCommand := &cobra.Command{
		Use:   "delete HANDLE",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]

			return be.DeleteUser(ctx, handle)
		},
	}

	userListCommand := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handles, err := be.Users(ctx)
			if err != nil {
				return err
			}

			sort.Strings(handles)
			users := make([]proto.User, 0, len(handles))
			for _, handle := range handles {
				user, err := be.User(ctx, handle)
				if err != nil {
					return err
				}

				users = append(users, user)
			}

			return tablewriter.Render(
				cmd.OutOrStdout(),
				users,
				[]string{"ID", "Handle", "Display Name", "Admin"},
				func(u proto.User) ([]string, error) {
					return []string{
						strconv.FormatInt(u.ID(), 10),
						u.Handle(),
						u.DisplayName(),
						strconv.FormatBool(u.IsAdmin()),
					}, nil
				},
			)
		},
	}

	userSetAdminCommand := &cobra.Command{
		Use:   "set-admin HANDLE [true|false]",
		Short: "Make a user an admin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]

			return be.SetAdmin(ctx, handle, args[1] == "true")
		},
	}

	userSetPasswordCommand := &cobra.Command{
		Use:   "set-password HANDLE PASSWORD",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]

			return be.SetPassword(ctx, handle, args[1])
		},
	}

	userSetDisplayNameCommand := &cobra.Command{
		Use:   "set-display-name HANDLE NAME",
		Short: "Change a user's display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]

			return be.SetDisplayName(ctx, handle, args[1])
		},
	}

	userSetHandleCommand := &cobra.Command{
		Use:   "set-handle HANDLE NEW_HANDLE",
		Short: "Change a user's handle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]
			newHandle := args[1]

			return be.SetHandle(ctx, handle, newHandle)
		},
	}

	userInfoCommand := &cobra.Command{
		Use:   "info HANDLE",
		Short: "Show information about a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be := backend.FromContext(ctx)
			handle := args[0]

			user, err := be.User(ctx, handle)
			if err != nil {
				return err
			}

			cmd.Printf("ID: %d\n", user.ID())
			cmd.Printf("Handle: %s\n", user.Handle())
			cmd.Printf("Display name: %s\n", user.DisplayName())
			cmd.Printf("Admin: %t\n", user.IsAdmin())
			if actor := proto.UserFromContext(ctx); actor != nil {
				cmd.Printf("Your access: %s\n", be.AccessLevelForUser(actor, user))
			}

			return nil
		},
	}

	Command.AddCommand(
		userCreateCommand,
		userInfoCommand,
		userListCommand,
		userDeleteCommand,
		userSetAdminCommand,
		userSetPasswordCommand,
		userSetDisplayNameCommand,
		userSetHandleCommand,
	)
}
