package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the web for business information",
	Long:  "Query Google Custom Search and print the business information built from the top results. Requires GOOGLE_CSE_API_KEY and GOOGLE_CSE_ID.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchJSON bool

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the business info as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, withoutController)
	if err != nil {
		return err
	}
	defer a.Close()

	info, err := a.source.SearchBusinessInfo(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printInfo(cmd, info, searchJSON)
}
