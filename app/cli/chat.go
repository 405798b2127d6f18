package cli

import (
	"bufio"
	"context"
	"fmt"
	"innervoice/app/service/conversation"
	"innervoice/app/service/mood"
	"innervoice/app/service/session"
	"innervoice/app/service/speech"
	"io"
	"strings"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Talk to the companion in the terminal",
		Long:  "Interactive session. Commands: /clear, /lang <code>, /mood, /quit.",
		RunE:  runChat,
	})
}

type dashboards interface {
	Dashboard(ctx context.Context, sessionID string) (*mood.Dashboard, error)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	di, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = di.Shutdown() }()

	go do.MustInvoke[*speech.Service](di).Run(ctx)

	sess := do.MustInvoke[*session.Manager](di).Create()
	journal := do.MustInvoke[*mood.Service](di)

	return chatLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), sess, journal, "")
}

func chatLoop(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session, journal dashboards, lang string) error {
	fmt.Fprintf(out, "Innervoice: %s\n", session.Greeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			fields := strings.Fields(line)
			switch fields[0] {
			case "/quit", "/exit":
				return nil
			case "/clear":
				sess.DeleteConversation()
				fmt.Fprintf(out, "Conversation cleared.\nInnervoice: %s\n", session.Greeting)
			case "/lang":
				if len(fields) < 2 {
					fmt.Fprintf(out, "Usage: /lang <%s>\n", strings.Join(conversation.Languages, "|"))
					continue
				}
				lang = fields[1]
				fmt.Fprintf(out, "Replying in %s.\n", conversation.LanguageName(lang))
			case "/mood":
				d, err := journal.Dashboard(ctx, sess.ID)
				if err != nil {
					return err
				}
				printDashboard(out, d)
			default:
				fmt.Fprintf(out, "Unknown command %s\n", fields[0])
			}
			continue
		}

		result, err := sess.Send(ctx, line, lang)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		fmt.Fprintf(out, "[%s] %s\n", result.Sentiment.Label, result.Sentiment.Feedback)
		fmt.Fprintf(out, "Innervoice: %s\n", result.Reply.Content)
	}
}

func printDashboard(out io.Writer, d *mood.Dashboard) {
	fmt.Fprintf(out, "Mood entries: %d\n", d.Count)
	fmt.Fprintf(out, "Average (last 7): %.2f %s %s\n", d.Average, d.AverageFor.Emoji, d.AverageFor.Label)
	if d.Recent != nil {
		fmt.Fprintf(out, "Most recent: %d %s %s\n", d.Recent.Score, d.RecentFor.Emoji, d.RecentFor.Label)
	}
	for _, s := range d.Strategies {
		fmt.Fprintf(out, "Try: %s - %s\n", s.Title, s.Description)
	}
}
