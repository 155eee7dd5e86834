// Package commands implements the hybridrag CLI.
package commands

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
)

// Global flags
var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hybridrag",
		Short: "Answer questions from local documents, falling back to web search",
		Long: `HybridRAG answers questions from your own documents first.

Documents in the data folder are chunked, embedded and indexed. Each
question is matched against the index; when the closest passage is
relevant enough the answer is grounded on local passages, otherwise a
web search supplies the context. Every answer lists its sources.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "text", "json":
			default:
				return fmt.Errorf("unknown --format %q (want auto, text or json)", outputFormat)
			}
			if quiet {
				log.SetOutput(io.Discard)
			} else if verbose {
				log.SetFlags(log.LstdFlags | log.Lmicroseconds)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text or json")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default hybridrag.yaml when present)")

	cmd.AddCommand(
		NewAskCmd(),
		NewChatCmd(),
		NewIngestCmd(),
		NewInitCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
