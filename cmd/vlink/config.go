package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturelinkhq/venturelink/pkg/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the server configuration",
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg := config.FromContext(c.Context())
			if cfg.Exist() {
				return fmt.Errorf("config file already exists: %s", cfg.ConfigPath())
			}

			if err := cfg.WriteConfig(); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			c.Println(cfg.ConfigPath())
			return nil
		},
	}

	configEnvCmd = &cobra.Command{
		Use:   "env",
		Short: "Print the effective configuration as environment variables",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg := config.FromContext(c.Context())
			for _, kv := range cfg.Environ() {
				c.Println(kv)
			}

			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configInitCmd, configEnvCmd)
}
