package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/ordlens/internal/cli"
	"github.com/cloo-solutions/ordlens/internal/cli/client"
	"github.com/cloo-solutions/ordlens/internal/domain"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ordlens",
		Short: "Find ordinal inscriptions that look alike",
		Long: `ordlens looks up an ordinal, a transaction or an image and lists visually
similar inscriptions, flagging exact duplicates.

Environment variables:
  ORDLENS_API_URL     Search backend base URL (default: http://localhost:8001)
  ORDLENS_SHARE_BASE  Base URL of shareable links
  ORDLENS_MINT_URL    Minting website offered for new images
  ORDLENS_LOG_LEVEL   Log level (default: warn)`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	client.AddPersistentFlags(rootCmd)
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.LookupCmd())
	rootCmd.AddCommand(client.RandomCmd())
	rootCmd.AddCommand(client.UploadCmd())
	rootCmd.AddCommand(client.OpenCmd())
	rootCmd.AddCommand(client.ConfigCmd())

	cli.CheckHelpJSON(rootCmd, os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		// Lookup errors were already rendered for the user.
		var domainErr *domain.DomainError
		if !errors.As(err, &domainErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
