package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/sponsor-finder/internal/observability"
	"github.com/jonathan/sponsor-finder/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract business information from a website",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractJSON bool

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the business info as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx, withoutController)
	if err != nil {
		return err
	}
	defer a.Close()

	info, err := a.source.ExtractFromURL(ctx, args[0])
	if err != nil {
		return err
	}
	return printInfo(cmd, info, extractJSON)
}

func printInfo(cmd *cobra.Command, info *types.BusinessInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("failed to encode business info: %w", err)
		}
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintBusinessInfo(info)
	return nil
}
