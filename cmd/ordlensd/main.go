package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/ordlens/internal/cli"
	"github.com/cloo-solutions/ordlens/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ordlensd",
		Short: "ordlens HTTP gateway",
		Long:  "ordlensd serves ordinal similarity lookups over HTTP",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd, os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
