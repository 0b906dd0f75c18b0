package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/tutorchat/internal/config"
)

const maskedSecret = "********"

func newConfigCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after the config file, the environment and the
flags have been applied. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.settings(opts)
			if err != nil {
				return err
			}

			if cfg.Server.JWTSecret != "" {
				cfg.Server.JWTSecret = maskedSecret
			}
			if cfg.Remote.Token != "" {
				cfg.Remote.Token = maskedSecret
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if path, err := config.GetConfigPath(); err == nil {
				fmt.Fprintf(deps.Stdout, "# %s\n", path)
			}
			fmt.Fprintln(deps.Stdout, string(data))

			keyState := "not set"
			if config.APIKey() != "" {
				keyState = "set"
			}
			fmt.Fprintf(deps.Stdout, "%s: %s\n", config.EnvAPIKey, keyState)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveConfig(config.DefaultConfig()); err != nil {
				return err
			}
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
