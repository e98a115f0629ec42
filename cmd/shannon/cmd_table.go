package main

import (
	"fmt"

	"shannon/cmd/shannon/ui"
	"shannon/internal/entropy"

	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Show the symbol frequency table behind the entropy of a line",
		Long: `Reads one line from standard input and prints each distinct character with
its count, probability and contribution to the entropy, followed by the
entropy, the maximum entropy for that many symbols, and the normalized value.`,
		Args: cobra.NoArgs,
		RunE: runTable,
	}
}

func runTable(cmd *cobra.Command, args []string) error {
	line, err := entropy.ReadLine(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	a, err := entropy.Analyze(line)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.RenderAnalysis(a, ui.DefaultStyles()))
	recordRun(commandContext(cmd), "table", line, a)
	return nil
}
