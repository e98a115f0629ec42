package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"shannon/cmd/shannon/ui"
	"shannon/internal/entropy"
	"shannon/internal/logging"
	"shannon/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// recordRun stores a run when history is enabled. Failures are logged, not
// returned: the result has already been printed.
func recordRun(ctx context.Context, source, input string, a *entropy.Analysis) {
	if cfg == nil || !cfg.History.Enabled {
		return
	}
	log := logging.Get(logging.CategoryStore)

	s, err := store.Open(resolvePath(cfg.History.DatabasePath))
	if err != nil {
		log.Warn("history unavailable", zap.Error(err))
		return
	}
	defer s.Close()

	if _, err := s.Record(ctx, source, input, a); err != nil {
		log.Warn("failed to record run", zap.Error(err))
	}
}

func newHistoryCmd() *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Long: `Lists runs recorded in the history database. Recording is enabled with
history.enabled in the config file or SHANNON_HISTORY=1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, last)
		},
	}
	cmd.Flags().IntVarP(&last, "last", "n", 20, "Number of runs to show (0 = all)")
	return cmd
}

func showHistory(cmd *cobra.Command, last int) error {
	out := cmd.OutOrStdout()
	path := resolvePath(cfg.History.DatabasePath)

	if path != ":memory:" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
	}

	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Recent(commandContext(cmd), last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	table := ui.NewSimpleTable("History", []string{"ID", "Source", "Length", "Distinct", "Entropy", "Created"})
	for _, r := range runs {
		table.AddRow(
			shortID(r.ID),
			r.Source,
			strconv.Itoa(r.Length),
			strconv.Itoa(r.Distinct),
			entropy.Format(r.Entropy),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Fprint(out, table.View(ui.DefaultStyles()))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
