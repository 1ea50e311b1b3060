// Command checkup runs the engine analysis offline and manages the schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "checkup",
	Short: "Engine sound checkup tools",
	Long: `checkup runs the simulated engine-sound analysis locally, classifies
anomaly scores, and applies database migrations for the API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newMigrateCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
