package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/tutorchat/internal/history"
	"github.com/diogo/tutorchat/internal/render"
	"github.com/diogo/tutorchat/internal/reveal"
	"github.com/diogo/tutorchat/internal/tui"
	"github.com/diogo/tutorchat/internal/tutor"
)

func newChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive tutor",
		Long: `Start the interactive tutor in the terminal.

Conversations live in memory for the session. Each one is titled from the
conclusion of its first reply, and replies are revealed a few characters at
a time. Type /help inside the chat for the slash commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, opts)
		},
	}
}

func runChat(deps *Dependencies, opts *rootOptions) error {
	cfg, err := deps.settings(opts)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so diagnostics are only
	// printed while the client is being built.
	logf := verbosef(deps.Stderr, cfg.Verbose)
	generator, err := deps.NewGenerator(cfg, logf)
	if err != nil {
		return err
	}

	store := history.NewStore()
	scheduler := reveal.NewScheduler(store,
		reveal.WithChunkSize(cfg.Reveal.ChunkSize),
		reveal.WithInterval(time.Duration(cfg.Reveal.IntervalMs)*time.Millisecond),
	)
	t := tutor.New(store, generator, tutor.WithScheduler(scheduler))

	tui.UpdateTheme(render.TUIThemeOrDefault(cfg.TUITheme))

	modelName := cfg.Model
	if cfg.Remote.URL != "" {
		modelName = "remote"
	}
	return deps.RunChat(t, modelName, render.OptionsFromConfig(cfg.Markdown, 0))
}
