package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit codes of the compare command.
const (
	exitEqual     = 0
	exitDifferent = 1
	exitError     = 2
)

// errDifferencesFound makes compare exit with exitDifferent.
var errDifferencesFound = errors.New("differences found")

var rootCmd = &cobra.Command{
	Use:   "pdfdiff",
	Short: "Compare PDF documents structurally and visually",
	Long: `Compare pairs of PDF documents with the same file name in two directories.

Differences are written as one line per document to the result file and
highlighted in PNG images under the output directory.

Examples:
  pdfdiff compare ./expected ./actual
  pdfdiff compare ./expected ./actual --mode visual --workers 8
  pdfdiff serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	rootCmd.PersistentFlags().String("out", "", "output directory (default: OUTPUT_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (default: LOG_LEVEL)")
	rootCmd.AddCommand(newCompareCmd(), newServeCmd())

	err := rootCmd.Execute()
	switch {
	case err == nil:
		os.Exit(exitEqual)
	case errors.Is(err, errDifferencesFound):
		os.Exit(exitDifferent)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitError)
	}
}
