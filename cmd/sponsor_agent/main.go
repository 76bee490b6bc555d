// Package main provides the entry point for the Sponsor Finder CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/sponsor-finder/internal/config"
)

var (
	configFile string
	// settings collects defaults, env bindings and bound flags for config.Load.
	settings = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "sponsor_agent",
	Short: "Sponsor Finder agent and HTTP API server",
	Long: "Sponsor Finder evaluates whether a business is a good sponsor for a sports club. " +
		"An LLM controller gathers business information, builds a profile and scores the fit.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().Bool("use-browser", false, "Render thin pages with headless Chrome")
	_ = settings.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = settings.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
	_ = settings.BindPFlag("use_browser", rootCmd.PersistentFlags().Lookup("use-browser"))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
