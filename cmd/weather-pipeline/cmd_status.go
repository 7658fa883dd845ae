package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report pipeline health and recent statistics",
	Long: `Probe the weather API, read the latest observations and a 7-day
statistics snapshot, and print the combined status. Always exits zero;
health problems are reported as data, not as failures.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), false)
	if err != nil {
		out, _ := json.MarshalIndent(map[string]string{
			"pipeline_health": "error",
			"error":           err.Error(),
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}
	defer a.close()

	status := a.pipeline.Status(cmd.Context())

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
