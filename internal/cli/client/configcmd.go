package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigCmd creates the config command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the user configuration",
		Long: `Reads and writes config.yaml in the user configuration directory.

Flags and ORDLENS_* environment variables take precedence over it.`,
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	cmd.AddCommand(configPathCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadUserConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range ConfigKeys() {
				value, _ := config.Get(key)
				if value == "" {
					value = "(not set)"
				}
				fmt.Fprintf(out, "%s: %s\n", key, value)
			}
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Store a setting, or clear it when value is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadUserConfig()
			if err != nil {
				return err
			}

			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := config.Set(args[0], value); err != nil {
				return err
			}
			if err := SaveUserConfig(config); err != nil {
				return err
			}

			if value == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], value)
			}
			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
