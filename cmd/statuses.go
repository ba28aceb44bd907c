package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"suggestion-tracker/internal/database/models"
)

func (c *cli) statusesCmd() *cobra.Command {
	statusesCmd := &cobra.Command{
		Use:   "statuses",
		Short: "List or create suggestion statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				statuses, err := a.statuses.GetAllStatuses(ctx)
				if err != nil {
					return err
				}
				printStatuses(cmd.OutOrStdout(), statuses)
				return nil
			})
		},
	}

	var name, description string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				status := &models.Status{StatusName: name, StatusDescription: description}
				if err := a.statuses.CreateStatus(ctx, status); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Status name (required)")
	createCmd.Flags().StringVar(&description, "description", "", "Status description")
	createCmd.MarkFlagRequired("name")
	statusesCmd.AddCommand(createCmd)

	return statusesCmd
}
