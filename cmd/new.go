package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var (
	newTopic    string
	newURL      string
	newRestrict bool
	newPDF      string
	newPlatform string
	newCount    int
)

// newCmd ingests source material and generates a feed
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a feed from a topic, a URL or a PDF",
	Long: `Send source material to the backend and generate a feed about it.

Exactly one of --topic, --url or --pdf is required. Press Ctrl-C while the
feed is generating to cancel; nothing is saved in that case.`,
	Example: `  doomlearn new --topic "how vinyl records work"
  doomlearn new --url https://go.dev/blog/pipelines --platform twitter
  doomlearn new --pdf paper.pdf --count 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req, err := buildRequest(a.cfg)
		if err != nil {
			return err
		}
		if req.Platform == "" {
			req.Platform = a.cfg.DefaultPlatform()
		}

		return runGeneration(cmd, a, func(ctx context.Context) (*internal.ActiveSession, error) {
			return a.feed.Generate(ctx, req)
		})
	},
}

// retryCmd regenerates a feed for a session whose generation failed
var retryCmd = &cobra.Command{
	Use:   "retry <session-id>",
	Short: "Retry feed generation for an already ingested session",
	Long: `Regenerate the feed for a session whose generation failed, without
ingesting the source again. The feed keeps the platform the session was
created with unless --platform is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req, err := buildRequest(a.cfg)
		if err != nil {
			return err
		}

		failed := &internal.GenerationError{SessionID: args[0]}
		return runGeneration(cmd, a, func(ctx context.Context) (*internal.ActiveSession, error) {
			return a.feed.Retry(ctx, failed, req)
		})
	},
}

// buildRequest maps the flags onto a Request. Platform is left empty unless
// --platform was given.
func buildRequest(cfg *internal.Config) (internal.Request, error) {
	req := internal.Request{
		RestrictToDocument: newRestrict,
		PostCount:          newCount,
	}
	if req.PostCount <= 0 {
		req.PostCount = cfg.PostCount
	}
	if newPlatform != "" {
		p, err := internal.ParsePlatform(newPlatform)
		if err != nil {
			return req, err
		}
		req.Platform = p
	}

	switch {
	case newTopic != "":
		req.Kind, req.Topic = internal.SourceTopic, newTopic
	case newURL != "":
		req.Kind, req.URL = internal.SourceURL, newURL
	case newPDF != "":
		req.Kind, req.DocumentPath = internal.SourceDocument, newPDF
	}
	return req, nil
}

func runGeneration(cmd *cobra.Command, a *app, run func(ctx context.Context) (*internal.ActiveSession, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var session *internal.ActiveSession
	err := internal.ShowProgress(ctx, "Starting...", func(ctx context.Context, sp *internal.Spinner) error {
		a.feed.OnStage(sp.SetMessage)
		var runErr error
		session, runErr = run(ctx)
		return runErr
	})

	var genErr *internal.GenerationError
	var ingestErr *internal.IngestionError
	switch {
	case err == nil:
	case errors.Is(err, internal.ErrCanceled):
		fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("Generation canceled. Nothing was saved."))
		return nil
	case errors.As(err, &genErr):
		return fmt.Errorf("could not generate the feed: %s\nThe source is kept. Retry with: doomlearn retry %s",
			internal.UserMessage(err), genErr.SessionID)
	case errors.As(err, &ingestErr):
		return fmt.Errorf("could not read the source: %s", internal.UserMessage(err))
	default:
		return err
	}

	if perr := a.state.LastPersistError(); perr != nil {
		internal.PrintWarning(fmt.Sprintf("Feed generated but history could not be saved: %v", perr))
	}
	printFeed(cmd, a.state, *session, false, false)
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newTopic, "topic", "t", "", "Topic or question to learn about")
	newCmd.Flags().StringVarP(&newURL, "url", "u", "", "Web page to learn from")
	newCmd.Flags().BoolVar(&newRestrict, "restrict", true, "Only use the page itself as source (with --url)")
	newCmd.Flags().StringVar(&newPDF, "pdf", "", "PDF document to learn from")
	newCmd.Flags().StringVarP(&newPlatform, "platform", "p", "", "Feed style: reddit or twitter (default from config)")
	newCmd.Flags().IntVarP(&newCount, "count", "n", 0, "Number of posts (default from config)")
	newCmd.MarkFlagsMutuallyExclusive("topic", "url", "pdf")
	newCmd.MarkFlagsOneRequired("topic", "url", "pdf")

	rootCmd.AddCommand(retryCmd)
	retryCmd.Flags().StringVarP(&newPlatform, "platform", "p", "", "Feed style: reddit or twitter (default: the session's platform)")
	retryCmd.Flags().IntVarP(&newCount, "count", "n", 0, "Number of posts (default from config)")
}
