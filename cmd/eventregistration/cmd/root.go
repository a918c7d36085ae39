package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"eventregistration/config"
)

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "eventregistration",
		Short: "Event registration API and client views",
		Long: `eventregistration runs the event registration HTTP API and the server-rendered
client views that consume it.

Storage is chosen by DATABASE_URL: postgres://, mongodb:// (or mongodb+srv://) or memory://.`,
		SilenceUsage: true,
		// Run the serve command by default if no subcommand is specified
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")

	root.AddCommand(serve)
	root.AddCommand(newWebCommand(opts))
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

// logger builds the process logger, letting --log-level override LOG_LEVEL.
func (o *globalOptions) logger() *slog.Logger {
	level := os.Getenv("LOG_LEVEL")
	if o.logLevel != "" {
		level = o.logLevel
	}
	return config.NewLoggerTo(os.Stdout, os.Getenv("GO_ENV"), level)
}
