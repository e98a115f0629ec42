package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shannon/internal/config"
	"shannon/internal/entropy"
	"shannon/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Loaded in PersistentPreRunE; logger is the cli category logger
	cfg    *config.Config
	logger = zap.NewNop()
)

// newRootCmd builds the command tree. Reading stdin and printing one value is
// the default action; subcommands add table, batch, watch and history modes.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shannon",
		Short: "Shannon entropy of a line of text",
		Long: `shannon reads one line from standard input and prints the Shannon entropy
(base 2) of its character distribution.

Values whose shortest decimal form has seven or more fractional digits are
printed with exactly seven; shorter values are printed unchanged.

Example:
  echo abc | shannon      # 1.5849625
  echo aabb | shannon     # 1.0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: runCompute,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.shannon/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "shannon:", err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging.
func setup() error {
	path := configPath
	if path == "" {
		path = config.DefaultPath(workspaceDir())
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	if _, err := logging.Initialize(loaded.Logging, verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = loaded
	logger = logging.Get(logging.CategoryCLI)
	logging.Get(logging.CategoryConfig).Debug("config loaded",
		zap.String("path", path),
		zap.Bool("history", cfg.History.Enabled))
	return nil
}

// runCompute reads one line from stdin and prints its formatted entropy.
func runCompute(cmd *cobra.Command, args []string) error {
	line, err := entropy.ReadLine(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	h, err := entropy.Compute(line)
	if err != nil {
		return err
	}
	logger.Debug("computed entropy",
		zap.Int("bytes", len(line)),
		zap.Float64("entropy", h))

	fmt.Fprintln(cmd.OutOrStdout(), entropy.Format(h))

	if cfg.History.Enabled {
		a, err := entropy.Analyze(line)
		if err == nil {
			recordRun(commandContext(cmd), "stdin", line, a)
		}
	}
	return nil
}

// workspaceDir returns the workspace flag or the current directory.
func workspaceDir() string {
	if workspace != "" {
		return workspace
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// resolvePath makes relative paths relative to the workspace.
func resolvePath(p string) string {
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspaceDir(), p)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
