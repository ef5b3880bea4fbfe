package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "deskrag",
	Short: "Deskrag - Retrieval-augmented support ticket answering",
	Long: `Deskrag answers support tickets from tiered knowledge bases.

It chunks and embeds the knowledge-base documents once at startup, routes
each question to the caller's entitlement tier plus the expert tier, and
synthesizes a grounded answer conditioned on the user's conversation
history.`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Path to the YAML configuration file")
}
