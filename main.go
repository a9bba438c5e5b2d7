package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	settingsPath string
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "blasperin <label> <author> <fasta-dir> <log-file>",
	Short: "BLAST a directory of protein FASTA files",
	Long: `Runs makeblastdb and blastp over every FASTA file in a directory, keeping
a done_files ledger so that interrupted runs resume where they stopped, and
writes a blasperin_metadata record describing the run.

A label equal to a subcommand name (status, help, completion) is taken as that
subcommand. Put -- before the positionals to pass it as a label:

  blasperin -- status "Jane Doe" ./ec ./blasperin.log`,
	Args:          cobra.ExactArgs(4),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), args[0], args[1], args[2], args[3])
	},
}

// runBatch performs one pass. Errors are also written to the run log, which
// is closed before returning.
func runBatch(ctx context.Context, label, author, fastaDir, logFile string) (err error) {
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	logger, err := NewLogger(logFile, debugMode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() {
		if err != nil {
			logger.Errorf("%v", err)
		}
		if cerr := logger.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing log file: %w", cerr)
		}
	}()

	tool := NewBlastTool(settings)
	processor, err := NewBatchProcessor(fastaDir, label, author, settings, tool, logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	if err := tool.Check(); err != nil {
		return fmt.Errorf("BLAST+ is not available: %w", err)
	}

	if _, err := processor.Run(ctx); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status <fasta-dir>",
	Short: "Show which FASTA files are done and which are pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadSettings(settingsPath)
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		processor, err := NewBatchProcessor(args[0], "", "", settings, nil, NewWriterLogger(cmd.ErrOrStderr(), debugMode))
		if err != nil {
			return err
		}
		return printStatus(cmd, processor)
	},
}

func printStatus(cmd *cobra.Command, processor *BatchProcessor) error {
	files, err := processor.InputFiles()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pending := 0
	for _, file := range files {
		done, err := processor.IsDone(file)
		if err != nil {
			return err
		}
		state := "DONE"
		if !done {
			state = "PENDING"
			pending++
		}
		fmt.Fprintf(out, "%-8s %s\n", state, file)
	}
	fmt.Fprintf(out, "%d files: %d done, %d pending\n", len(files), len(files)-pending, pending)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a YAML or TOML settings file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(statusCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
