package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var runIntervalMinutes int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline continuously",
	Long: `Run collection cycles on a fixed interval until interrupted.
The first cycle starts immediately; SIGINT or SIGTERM stops the loop after
releasing the store.`,
	RunE: runContinuous,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runIntervalMinutes, "interval", 0, "collection interval in minutes (default: from configuration)")
}

func runContinuous(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// RunContinuous owns cleanup of the store; the warehouse client is
	// released here once the loop exits.
	a.pipeline.RunContinuous(ctx, time.Duration(runIntervalMinutes)*time.Minute)
	a.closeSink()
	return nil
}
