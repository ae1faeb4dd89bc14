package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/internal/trainer"
	"github.com/example/engtrainer/pkg/models"
)

func newReviewCommand(a *app) *cobra.Command {
	var target int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review today's words in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if target != 0 && (target < trainer.MinDailyTarget || target > trainer.MaxDailyTarget) {
				return trainer.ErrInvalidTarget
			}
			t, closeStorage, err := openTrainer(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeStorage()
			return runReview(cmd.Context(), t, cmd.InOrStdin(), cmd.OutOrStdout(), target)
		},
	}
	cmd.Flags().IntVar(&target, "target", 0, "daily target for this session (default: saved setting)")
	return cmd
}

// runReview drives one session over a line-oriented terminal
func runReview(ctx context.Context, t *trainer.Trainer, in io.Reader, out io.Writer, target int) error {
	session := t.StartSessionWithTarget(target)
	if session.Total() == 0 {
		fmt.Fprintln(out, "Nothing to review today.")
		return nil
	}
	fmt.Fprintf(out, "Session: %d due, %d new. Type q to stop.\n", session.Due(), session.New())

	direction := t.Settings().Direction
	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

review:
	for {
		w, ok := session.Next()
		if !ok {
			break
		}
		front, back := cardSides(w, direction)
		fmt.Fprintf(out, "\n[%d/%d] %s\n", session.Total()-session.Remaining(), session.Total(), front)

		line, ok := readLine("Enter to show, h for a hint: ")
		if !ok || line == "q" {
			break
		}
		if line == "h" {
			fmt.Fprintln(out, "Hint:", firstLetter(back))
			if _, ok := readLine("Enter to show: "); !ok {
				break
			}
		}
		fmt.Fprintln(out, back)
		if w.Example != "" {
			fmt.Fprintln(out, "  "+w.Example)
		}

		for {
			line, ok := readLine("1 again, 2 hard, 3 good, 4 easy: ")
			if !ok || line == "q" {
				break review
			}
			q, err := spaced_repetition.ParseQuality(line)
			if err != nil {
				continue
			}
			cs, err := session.Rate(q)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Next review in %d day(s), %s.\n", cs.IntervalDays, models.FormatDate(cs.Due))
			break
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if err := t.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nReviewed %d of %d words.\n", session.Reviewed(), session.Total())
	return nil
}

func cardSides(w models.Word, d models.Direction) (string, string) {
	english := w.English
	if w.IPA != "" {
		english += " [" + w.IPA + "]"
	}
	if d == models.DirectionRuEn {
		return w.Russian, english
	}
	return english, w.Russian
}

func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(r) + "…"
}
