package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weather-pipeline",
	Short: "Weather Data Pipeline - collect, validate, and store weather observations",
	Long: `Weather Data Pipeline periodically collects current weather observations
for a configured set of cities from OpenWeatherMap, validates and normalizes
each observation, persists it locally, and mirrors it to a BigQuery warehouse.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
