package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pdf-diff/internal/config"
	"pdf-diff/internal/domain"

	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <dirA> <dirB>",
		Short: "Compare the PDF pairs of two directories",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}
	cmd.Flags().StringP("mode", "m", "", "comparison mode: simple, structural or visual (default: COMPARE_MODE)")
	cmd.Flags().IntP("workers", "w", 0, "number of documents compared in parallel (default: WORKER_COUNT)")
	cmd.Flags().String("prefix", "", "only compare files whose name starts with prefix (default: FILE_PREFIX)")
	cmd.Flags().Bool("strict", false, "validate PDFs before comparing them")
	return cmd
}

// loadConfig reads the environment and applies the flags that were set
func loadConfig(cmd *cobra.Command) *config.AppConfig {
	cfg := config.NewConfig()
	flags := cmd.Flags()
	if v, _ := flags.GetString("out"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if flags.Lookup("mode") != nil {
		if v, _ := flags.GetString("mode"); v != "" {
			cfg.CompareMode = v
		}
	}
	if flags.Lookup("workers") != nil {
		if v, _ := flags.GetInt("workers"); v > 0 {
			cfg.WorkerCount = v
		}
	}
	if flags.Lookup("prefix") != nil && flags.Changed("prefix") {
		cfg.FilePrefix, _ = flags.GetString("prefix")
	}
	if flags.Lookup("strict") != nil && flags.Changed("strict") {
		cfg.StrictLoad, _ = flags.GetBool("strict")
	}
	return cfg
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	mode, err := domain.ParseComparisonMode(cfg.CompareMode)
	if err != nil {
		return err
	}

	container := config.NewContainerWithConfig(cfg)

	// each invocation starts a fresh result log
	resultPath := filepath.Join(cfg.GetOutputDir(), cfg.GetResultFile())
	if err := os.Remove(resultPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to reset result file: %w", err)
	}

	pairs, err := container.Discovery.FindPairs(args[0], args[1], cfg.GetFilePrefix())
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		container.Logger.Warn("No document pairs found", "dir_a", args[0], "dir_b", args[1])
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := container.Comparisons.Run(ctx, "cli", pairs, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range summary.Results {
		if r.Different {
			fmt.Fprintln(out, r.ResultLine())
		}
	}
	fmt.Fprintf(out, "%d documents compared, %d different, %d failed (%s)\n",
		summary.Pairs, summary.DifferentPairs, summary.FailedPairs, summary.Elapsed)

	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if summary.FoundDifference {
		return errDifferencesFound
	}
	return nil
}
