package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workday-poller/cmd"
)

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "config.json"
}

func main() {
	var configPath string
	var pollSchedule string
	var serverSchedule string
	var port int
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "workday-poller",
		Short:         "Periodically fetches HR data from a Workday REST API and logs it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the JSON configuration file")

	pollCmd := &cobra.Command{
		Use:   "poll",
		Short: "Run the poller until SIGINT/SIGTERM",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Poll(configPath, pollSchedule)
		},
	}
	pollCmd.Flags().StringVar(&pollSchedule, "schedule", "", "cron expression; overrides the fixed poll interval")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Run a single poll cycle and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Import(configPath)
		},
	}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Run the poller on a cron schedule and serve the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(configPath, serverSchedule, port, debug)
		},
	}
	serverCmd.Flags().StringVar(&serverSchedule, "schedule", "0 * * * *", "cron expression for poll cycles")
	serverCmd.Flags().IntVar(&port, "port", 8080, "port for the HTTP API server")
	serverCmd.Flags().BoolVar(&debug, "debug", false, "expose pprof endpoints")

	rootCmd.AddCommand(pollCmd, importCmd, serverCmd)

	if err := rootCmd.Execute(); err != nil {
		// Startup diagnostics go to stdout so unattended supervisors capture
		// them even with stderr discarded.
		fmt.Println(err)
		os.Exit(1)
	}
}
