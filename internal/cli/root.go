// Package cli wires configuration, storage and the trainer into cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/engtrainer/internal/config"
	"github.com/example/engtrainer/internal/logger"
)

// app carries what every command needs once the root has loaded it
type app struct {
	envFile string
	cfg     *config.Config
	log     *logger.Logger
}

// NewRootCommand builds the engtrainer command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "engtrainer",
		Short:         "Spaced repetition vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "path to a .env file")

	root.AddCommand(
		newBotCommand(a),
		newReviewCommand(a),
		newImportCommand(a),
		newStatsCommand(a),
		newExportCommand(a),
		newResetCommand(a),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
