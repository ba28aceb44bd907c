package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"suggestion-tracker/internal/database/models"
)

func (c *cli) listCmd() *cobra.Command {
	var (
		approved bool
		pending  bool
		userID   string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List suggestions",
		Long:  `List non-archived suggestions, optionally only approved or pending ones, or every suggestion authored by one user.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				var (
					list []models.Suggestion
					err  error
				)
				switch {
				case userID != "":
					list, err = a.suggestions.GetUsersSuggestions(ctx, userID)
				case approved:
					list, err = a.suggestions.GetAllApprovedSuggestions(ctx)
				case pending:
					list, err = a.suggestions.GetAllSuggestionsWaitingForApproval(ctx)
				default:
					list, err = a.suggestions.GetAllSuggestions(ctx)
				}
				if err != nil {
					return err
				}
				printSuggestions(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&approved, "approved", false, "Only suggestions approved for release")
	listCmd.Flags().BoolVar(&pending, "pending", false, "Only suggestions waiting for approval")
	listCmd.Flags().StringVar(&userID, "user", "", "Suggestions authored by this user ID, archived ones included")
	listCmd.MarkFlagsMutuallyExclusive("approved", "pending", "user")

	return listCmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <suggestion-id>",
		Short: "Show one suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				s, err := a.suggestions.GetSuggestion(ctx, args[0])
				if err != nil {
					return err
				}
				printSuggestion(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func (c *cli) createCmd() *cobra.Command {
	var (
		authorID    string
		title       string
		description string
		category    string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a suggestion and link it to its author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				author, err := a.users.GetUser(ctx, authorID)
				if err != nil {
					return err
				}
				s := &models.Suggestion{
					Suggestion:  title,
					Description: description,
					Category:    models.Category{CategoryName: category},
					Author:      author.Basic(),
				}
				if err := a.suggestions.CreateSuggestion(ctx, s); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&authorID, "author", "", "Author user ID (required)")
	createCmd.Flags().StringVar(&title, "title", "", "Short title (required)")
	createCmd.Flags().StringVar(&description, "description", "", "Longer description")
	createCmd.Flags().StringVar(&category, "category", "", "Category name")
	createCmd.MarkFlagRequired("author")
	createCmd.MarkFlagRequired("title")

	return createCmd
}

func (c *cli) upvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote <suggestion-id> <user-id>",
		Short: "Toggle a user's vote on a suggestion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				state, err := a.suggestions.UpvoteSuggestion(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), state)
				return nil
			})
		},
	}
}

func (c *cli) reviewCmd() *cobra.Command {
	var (
		decision string
		status   string
		notes    string
	)

	reviewCmd := &cobra.Command{
		Use:   "review <suggestion-id>",
		Short: "Approve, reject or reset a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				s, err := a.suggestions.GetSuggestion(ctx, args[0])
				if err != nil {
					return err
				}

				switch strings.ToLower(decision) {
				case "approve":
					s.ApprovedForRelease, s.Rejected = true, false
				case "reject":
					s.ApprovedForRelease, s.Rejected = false, true
				case "pending":
					s.ApprovedForRelease, s.Rejected = false, false
				case "":
				default:
					return fmt.Errorf("unknown decision %q, want approve, reject or pending", decision)
				}
				if cmd.Flags().Changed("notes") {
					s.OwnerNotes = notes
				}
				if status != "" {
					st, err := findStatus(ctx, a, status)
					if err != nil {
						return err
					}
					s.SuggestionStatus = st
				}

				if err := a.suggestions.UpdateSuggestion(ctx, s); err != nil {
					return err
				}
				printSuggestion(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
	reviewCmd.Flags().StringVar(&decision, "decision", "", "approve, reject or pending")
	reviewCmd.Flags().StringVar(&status, "status", "", "Status name to assign")
	reviewCmd.Flags().StringVar(&notes, "notes", "", "Owner notes")

	return reviewCmd
}

func (c *cli) archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <suggestion-id>",
		Short: "Archive a suggestion, hiding it from the main lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app) error {
				s, err := a.suggestions.GetSuggestion(ctx, args[0])
				if err != nil {
					return err
				}
				s.Archive = true
				if err := a.suggestions.UpdateSuggestion(ctx, s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", s.ID)
				return nil
			})
		},
	}
}

func findStatus(ctx context.Context, a *app, name string) (*models.Status, error) {
	statuses, err := a.statuses.GetAllStatuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if strings.EqualFold(statuses[i].StatusName, name) {
			return &statuses[i], nil
		}
	}
	return nil, fmt.Errorf("unknown status %q", name)
}
