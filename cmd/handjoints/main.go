// Command handjoints tracks one hand through a camera and serves its joints
// as normalized, confidence-filtered coordinates.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/handjoints/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel string
	logJSON  bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "handjoints",
		Short:         "Hand joint tracking service",
		Long:          "Tracks one hand through a camera and publishes confidence-filtered, rounded joint positions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error or disabled")
	root.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "Emit logs as JSON")

	root.AddCommand(
		newServeCommand(flags),
		newDecodeCommand(),
		newNormalizeCommand(),
	)
	return root
}

// newLogger builds the logger from config values overridden by flags.
func (f *globalFlags) newLogger(cmd *cobra.Command, level string, json bool) logger.Logger {
	if f.logLevel != "" {
		level = f.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		json = f.logJSON
	}

	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(level)
	cfg.JSON = json
	cfg.Output = cmd.ErrOrStderr()
	return logger.New(cfg)
}
