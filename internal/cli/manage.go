package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/engtrainer/internal/excel"
	"github.com/example/engtrainer/pkg/models"
)

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add words from a .csv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := excel.ReadWords(args[0], excel.DefaultImportConfig())
			if err != nil {
				return err
			}
			t, closeStorage, err := openTrainer(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeStorage()

			result, err := t.Import(cmd.Context(), parsed.Words)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added: %d\nSkipped: %d\nErrors: %d\n", result.Added, result.Skipped, len(parsed.Errors)+len(result.Errors))
			for _, e := range append(parsed.Errors, result.Errors...) {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, closeStorage, err := openTrainer(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeStorage()

			st := t.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total: %d  Learned: %d  Due today: %d  New: %d  Mastered: %d\n\n",
				st.Total, st.Learned, st.DueToday, st.New, st.Mastered)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WORD\tTRANSLATION\tEASE\tINTERVAL\tREPS\tDUE")
			for _, row := range st.Rows {
				cs := row.State
				due := models.FormatDate(cs.Due)
				if cs.IsNew() {
					due = "new"
				}
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%d\t%s\n", row.Word.English, row.Word.Russian, cs.Ease, cs.IntervalDays, cs.Reps, due)
			}
			return tw.Flush()
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the progress snapshot as JSON (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, closeStorage, err := openTrainer(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeStorage()

			if len(args) == 0 {
				return t.Export(cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := t.Export(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func newResetCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget all learning progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			t, closeStorage, err := openTrainer(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeStorage()

			if err := t.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
