// Package commands provides the CLI commands for tutorchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	model   string
	verbose bool
	remote  string
	token   string
	envFile string

	// one-shot query flags
	output string
	file   string
	image  string
	raw    bool
}

// NewRootCmd builds the command tree over deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tutorchat [question]",
		Short: "AI tutor chat backed by Gemini",
		Long: `tutorchat is an AI tutor for the terminal. It answers questions through
the Gemini API, titles each conversation from the reply and reveals answers
incrementally.

Examples:
  tutorchat chat                          Start the interactive tutor
  tutorchat "公開鍵暗号とは？"               Ask a single question
  tutorchat "この図を説明して" -i fig.png    Attach an image
  tutorchat -f question.md -o answer.md   Read from and write to files
  tutorchat serve                         Run the HTTP chat service
  tutorchat chat --remote http://host:8080 --token <jwt>`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "tutorchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd.Context(), deps, opts, string(data))
			}

			if deps.StdinIsPipe() {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runQuery(cmd.Context(), deps, opts, string(data))
			}

			if len(args) > 0 {
				return runQuery(cmd.Context(), deps, opts, args[0])
			}

			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Print diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.remote, "remote", "", "Send questions to a tutorchat server instead of Gemini")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "Bearer token for --remote")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Load environment variables from this file")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read question from file")
	rootCmd.Flags().StringVarP(&opts.image, "image", "i", "", "Path to image file to include")
	rootCmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.AddCommand(newChatCmd(deps, opts))
	rootCmd.AddCommand(newServeCmd(deps, opts))
	rootCmd.AddCommand(newTokenCmd(deps, opts))
	rootCmd.AddCommand(newConfigCmd(deps, opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}

// verbosef prints a [verbose] diagnostic line when verbose output is on
func verbosef(w io.Writer, enabled bool) func(format string, args ...any) {
	if !enabled {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		fmt.Fprintf(w, format, args...)
	}
}
