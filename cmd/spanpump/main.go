package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/spanpump/cmd/spanpump/commands"
	"github.com/teranos/spanpump/logger"
)

var rootCmd = &cobra.Command{
	Use:   "spanpump",
	Short: "spanpump ingests OTLP spans into the columnar store",
	Long: `spanpump polls an upstream span source over gRPC, decodes OTLP spans
into flat rows, and persists them into a DuckDB columnar store, while also
serving an internal API-key validation RPC used by other platform services.

Available commands:
  run          - Run the poller and auth RPC server until terminated
  resume clear - Reset the resumption cursor so the next run starts from scratch`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json-logs", false, "emit structured JSON logs instead of the console format")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ResumeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
