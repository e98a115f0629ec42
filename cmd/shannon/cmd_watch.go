package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shannon/internal/entropy"
	"shannon/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Print the entropy of a file's first line whenever it changes",
		Long: `Prints the entropy of the first line of a file, then prints it again every
time the file is written, until interrupted. Bursts of writes are collapsed
using watch.debounce from the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := func(ev watch.Evaluation) {
		if ev.Err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", ev.Path, ev.Err)
			return
		}
		fmt.Fprintln(out, entropy.Format(ev.Analysis.Entropy))
		recordRun(ctx, "watch:"+ev.Path, ev.Input, ev.Analysis)
	}

	w, err := watch.New(args[0], cfg.GetDebounce(), report)
	if err != nil {
		return err
	}
	defer w.Stop()

	first := w.Evaluate()
	if os.IsNotExist(first.Err) {
		return first.Err
	}
	report(first)

	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
