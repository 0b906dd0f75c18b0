package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/tutorchat/internal/server"
)

func newServeCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat service",
		Long: `Serve POST /api/chat backed by the Gemini API.

The API key stays on the server. When TUTORCHAT_JWT_SECRET is set, requests
must carry a bearer token signed with it (see "tutorchat token").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, deps, opts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func runServe(ctx context.Context, deps *Dependencies, opts *rootOptions, addr string) error {
	cfg, err := deps.settings(opts)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	// A server always talks to Gemini directly
	cfg.Remote.URL = ""
	logf := verbosef(deps.Stderr, cfg.Verbose)

	generator, err := deps.NewGenerator(cfg, logf)
	if err != nil {
		return err
	}

	auth := "off"
	switch {
	case cfg.Server.BypassAuth:
		auth = "bypassed"
	case cfg.Server.JWTSecret != "":
		auth = "bearer token"
	}
	fmt.Fprintf(deps.Stderr, "tutorchat listening on %s (auth: %s)\n", cfg.Server.Addr, auth)

	return server.New(cfg.Server, generator, server.WithLogger(logf)).Run(ctx)
}
