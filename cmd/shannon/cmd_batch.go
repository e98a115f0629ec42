package main

import (
	"fmt"
	"io"
	"os"

	"shannon/internal/batch"
	"shannon/internal/entropy"
	"shannon/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file]",
		Short: "Compute the entropy of every line of a file",
		Long: `Computes the entropy of each line of a file, or of standard input when the
file is omitted or "-". One formatted value is printed per line, in input
order. Empty lines are reported on stderr and make the command fail once all
lines have been processed.

Example:
  shannon batch words.txt
  cat words.txt | shannon batch`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBatch,
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	lines, err := entropy.ReadLines(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	results, err := batch.Run(commandContext(cmd), lines, cfg.Batch.Workers)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(errOut, "line %d: %v\n", r.Line, r.Err)
			continue
		}
		fmt.Fprintln(out, entropy.Format(r.Value))
	}

	failed := batch.Failed(results)
	logging.Get(logging.CategoryBatch).Debug("batch finished",
		zap.Int("lines", len(results)),
		zap.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed", failed, len(results))
	}
	return nil
}
