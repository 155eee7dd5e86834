package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer a single question",
		Long: `Answer a single question.

The question is matched against the local index first. When no local
passage is relevant enough, web search supplies the context instead.`,
		Example: `  hybridrag ask "What does chapter 3 say about retries?"
  hybridrag ask --format json "latest Go release"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.Hybrid.Ask(cmd.Context(), strings.Join(args, " "))
			return renderResult(cmd.OutOrStdout(), res, outputFormat)
		},
	}
}
