package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/tutorchat/internal/config"
	"github.com/diogo/tutorchat/internal/server"
)

func newTokenCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the chat service",
		Long: `Issue an HS256 bearer token for "tutorchat serve".

The token is signed with TUTORCHAT_JWT_SECRET (or server.jwt_secret in the
config file) and names <subject> as the client for rate limiting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.settings(opts)
			if err != nil {
				return err
			}
			if cfg.Server.JWTSecret == "" {
				return fmt.Errorf("no signing secret: set %s", config.EnvJWTSecret)
			}

			token, err := server.IssueToken(cfg.Server.JWTSecret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
