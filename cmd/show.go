package cmd

import (
	"fmt"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var (
	showAll      bool
	showComments bool
)

// feedCmd prints a session's posts
var feedCmd = &cobra.Command{
	Use:     "feed <session-id>",
	Aliases: []string{"show"},
	Short:   "Show the posts of a session",
	Long: `Open a session and print its posts.

The session is looked up in local history first and fetched from the
backend otherwise. Hidden posts are skipped unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := a.feed.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printFeed(cmd, a.state, *session, showAll, showComments)
		return nil
	},
}

func printFeed(cmd *cobra.Command, st *internal.State, session internal.ActiveSession, all, comments bool) {
	out := cmd.OutOrStdout()

	posts := st.VisiblePosts()
	if all {
		posts = session.Posts
	}

	renderSessionHeader(out, session, len(posts))
	if len(posts) == 0 {
		fmt.Fprintln(out, warningStyle.Render("Every post in this session is hidden. Use --all to see them."))
		return
	}
	for _, p := range posts {
		renderPost(out, viewOf(st, p))
		if comments {
			renderComments(out, p)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("💡 Tip: doomlearn like <post-id>, doomlearn save %s <post-id>, doomlearn graph %s", session.ID, session.ID)))
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.Flags().BoolVar(&showAll, "all", false, "Include hidden posts")
	feedCmd.Flags().BoolVar(&showComments, "comments", false, "Print comments under each post")
}
