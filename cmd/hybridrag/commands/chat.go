package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

// asker answers one query.
type asker interface {
	Ask(ctx context.Context, query string) entities.QueryResult
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively",
		Long: `Ask questions interactively.

Each question is answered independently. The session keeps a log of
questions and answers for display only.

Commands: /history, /reset, /exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return chatLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.Hybrid)
		},
	}
}

// chatLoop reads questions from in until EOF or /exit.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, a asker) error {
	var conv entities.Conversation
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			conv.Reset()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		case "/history":
			printHistory(out, conv)
			continue
		}

		res := a.Ask(ctx, line)
		conv.AddUser(line)
		conv.AddAnswer(res)
		if err := renderResult(out, res, "text"); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
}

func printHistory(out io.Writer, conv entities.Conversation) {
	if len(conv.Turns) == 0 {
		fmt.Fprintln(out, "No messages yet.")
		return
	}
	for _, t := range conv.Turns {
		fmt.Fprintf(out, "%s: %s\n", t.Role, truncate(t.Content, 80))
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
