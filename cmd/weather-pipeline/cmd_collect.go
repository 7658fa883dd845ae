package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/pipeline"
)

var collectCities []string

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a single collection cycle",
	Long: `Run one fetch-validate-store-upload cycle and print the result.
Exits non-zero unless the cycle finishes with status "success".`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringSliceVar(&collectCities, "cities", nil, "cities to collect (default: from configuration)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}

	res := a.pipeline.RunOnce(cmd.Context(), collectCities)
	a.close()

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if res.Status != pipeline.StatusSuccess {
		os.Exit(1)
	}
	return nil
}
