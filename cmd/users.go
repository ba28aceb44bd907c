package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"suggestion-tracker/internal/database/models"
)

func (c *cli) usersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				users, err := a.users.GetUsers(ctx)
				if err != nil {
					return err
				}
				printUsers(cmd.OutOrStdout(), users)
				return nil
			})
		},
	}
	usersCmd.AddCommand(listCmd)

	var byObjectID bool
	getCmd := &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show one user with their authored and voted suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				var (
					user *models.User
					err  error
				)
				if byObjectID {
					user, err = a.users.GetUserFromAuthentication(ctx, args[0])
				} else {
					user, err = a.users.GetUser(ctx, args[0])
				}
				if err != nil {
					return err
				}
				printUser(cmd.OutOrStdout(), user)
				return nil
			})
		},
	}
	getCmd.Flags().BoolVar(&byObjectID, "object-id", false, "Look the user up by identity provider subject")
	usersCmd.AddCommand(getCmd)

	var user models.User
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				u := user
				if err := a.users.CreateUser(ctx, &u); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&user.ID, "id", "", "User ID, generated when empty")
	createCmd.Flags().StringVar(&user.ObjectIdentifier, "object-id", "", "Identity provider subject (required)")
	createCmd.Flags().StringVar(&user.DisplayName, "display-name", "", "Display name (required)")
	createCmd.Flags().StringVar(&user.FirstName, "first-name", "", "First name")
	createCmd.Flags().StringVar(&user.LastName, "last-name", "", "Last name")
	createCmd.Flags().StringVar(&user.EmailAddress, "email", "", "Email address")
	createCmd.MarkFlagRequired("object-id")
	createCmd.MarkFlagRequired("display-name")
	usersCmd.AddCommand(createCmd)

	return usersCmd
}
