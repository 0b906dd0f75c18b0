package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/config"
	"github.com/diogo/tutorchat/internal/render"
	"github.com/diogo/tutorchat/internal/tutor"
	"github.com/diogo/tutorchat/internal/tui"
)

// Dependencies holds the external dependencies of the commands so tests can
// replace the network, the terminal and the filesystem.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsPipe reports whether a question is being piped in
	StdinIsPipe func() bool

	// LoadConfig returns the stored configuration
	LoadConfig func() (config.Config, error)

	// NewGenerator builds the reply source for cfg
	NewGenerator func(cfg config.Config, logf func(format string, args ...any)) (api.Generator, error)

	// RunChat runs the interactive interface until the user quits
	RunChat func(t *tutor.Tutor, modelName string, opts render.Options) error

	// CopyText writes to the system clipboard
	CopyText func(text string) error

	// Decorate enables spinners and styled output
	Decorate func() bool
}

// NewDependencies creates Dependencies with the production implementations
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		StdinIsPipe: func() bool {
			stat, err := os.Stdin.Stat()
			return err == nil && (stat.Mode()&os.ModeCharDevice) == 0
		},
		LoadConfig:   config.LoadConfig,
		NewGenerator: newGenerator,
		RunChat:      tui.RunChat,
		CopyText:     clipboard.WriteAll,
		Decorate:     isStdoutTTY,
	}
}

// settings loads the configuration and overlays the environment and flags.
// Flags win over the environment, which wins over the config file.
func (d *Dependencies) settings(opts *rootOptions) (config.Config, error) {
	if err := config.LoadEnv(opts.envFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := d.LoadConfig()
	if err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg)

	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.remote != "" {
		cfg.Remote.URL = opts.remote
	}
	if opts.token != "" {
		cfg.Remote.Token = opts.token
	}
	return cfg, nil
}

// newGenerator returns a RemoteClient when a server URL is configured and a
// direct GeminiClient otherwise
func newGenerator(cfg config.Config, logf func(format string, args ...any)) (api.Generator, error) {
	if cfg.Remote.URL != "" {
		logf("[verbose] Using tutorchat server at %s\n", cfg.Remote.URL)
		return api.NewRemoteClient(cfg.Remote.URL, cfg.RequestTimeout, api.WithToken(cfg.Remote.Token))
	}

	systemPrompt, err := config.LoadSystemPrompt(cfg)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(
		api.WithModel(cfg.Model),
		api.WithAPIKey(config.APIKey()),
		api.WithSystemPrompt(systemPrompt),
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logf),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	logf("[verbose] Model: %s\n", client.GetModel())
	return client, nil
}
