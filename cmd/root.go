package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"suggestion-tracker/internal/config"
	"suggestion-tracker/internal/logger"
)

// opener wires an app for one command run and returns its release func.
type opener func(ctx context.Context) (*app, func(), error)

type cli struct {
	open        opener
	showMetrics bool
}

func openFromEnv(ctx context.Context) (*app, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	a, err := openApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, func() { a.Close(context.WithoutCancel(ctx)) }, nil
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{open: open}

	rootCmd := &cobra.Command{
		Use:           "suggestions",
		Short:         "Track feature suggestions and votes",
		Long:          `Read and manage suggestions, users and statuses stored in MongoDB, with cached list queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&c.showMetrics, "metrics", false, "Print repository metrics to stderr after the command")

	rootCmd.AddCommand(c.listCmd())
	rootCmd.AddCommand(c.getCmd())
	rootCmd.AddCommand(c.createCmd())
	rootCmd.AddCommand(c.upvoteCmd())
	rootCmd.AddCommand(c.reviewCmd())
	rootCmd.AddCommand(c.archiveCmd())
	rootCmd.AddCommand(c.statusesCmd())
	rootCmd.AddCommand(c.usersCmd())

	return rootCmd
}

// run opens the app, runs fn and releases the app again.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, release, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := fn(ctx, a); err != nil {
		return err
	}
	if c.showMetrics {
		return a.writeMetrics(cmd.ErrOrStderr())
	}
	return nil
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openFromEnv).ExecuteContext(ctx); err != nil {
		logger.WithComponent("cli").WithError(err).Error("Command failed")
		sentry.Flush(2 * time.Second)
		stop()
		os.Exit(1)
	}
}
