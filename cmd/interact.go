package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var hideReason string

// likeCmd toggles the like on a post
var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post, or unlike it if already liked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		postID := args[0]
		liked := a.state.ToggleLike(postID)
		out := cmd.OutOrStdout()

		msg := "Unliked " + postID
		if liked {
			msg = "Liked " + postID
		}
		if entry, ok := internal.FindEntryForPost(a.state.History(), postID); ok {
			for _, p := range entry.Posts {
				if p.ID == postID {
					msg += fmt.Sprintf(" (%d upvotes)", a.state.LikeAdjustedUpvotes(p))
					break
				}
			}
		}
		fmt.Fprintln(out, successStyle.Render(msg))
		warnPersist(cmd, a)
		return nil
	},
}

// saveCmd bookmarks a post from a session
var saveCmd = &cobra.Command{
	Use:   "save <session-id> <post-id>",
	Short: "Save a post for later",
	Args:  cobra.ExactArgs(2),
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
		post, ok := session.Post(args[1])
		if !ok {
			return fmt.Errorf("post %s is not in session %s", args[1], args[0])
		}

		if a.state.IsSaved(post.ID) {
			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Already saved "+post.ID))
			return nil
		}
		a.state.AddSavedPost(post)
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Saved "+post.ID))
		warnPersist(cmd, a)
		return nil
	},
}

// unsaveCmd removes a saved post
var unsaveCmd = &cobra.Command{
	Use:   "unsave <post-id>",
	Short: "Remove a post from your saved posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.state.IsSaved(args[0]) {
			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render(args[0]+" was not saved"))
			return nil
		}
		a.state.RemoveSavedPost(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Removed "+args[0]+" from saved posts"))
		warnPersist(cmd, a)
		return nil
	},
}

// hideCmd hides a post with a reason
var hideCmd = &cobra.Command{
	Use:   "hide <session-id> <post-id>",
	Short: "Hide a post you do not want to see again",
	Long: `Hide a post and record why. Hidden posts stay hidden in every session.

Reasons: already_know, not_relevant, too_basic, too_advanced`,
	Args: cobra.ExactArgs(2),
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
		if _, ok := session.Post(args[1]); !ok {
			return fmt.Errorf("post %s is not in session %s", args[1], args[0])
		}

		if err := a.state.HidePost(args[1], internal.DislikeReason(hideReason)); err != nil {
			return fmt.Errorf("%w (choose one of: %s)", err, reasonList())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			successStyle.Render("Hidden "+args[1]+"."),
			countStyle.Render(fmt.Sprintf("%d posts left in this feed", len(a.state.VisiblePosts()))))
		warnPersist(cmd, a)
		return nil
	},
}

// savedCmd lists saved posts
var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List your saved posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		posts := a.state.SavedPosts()
		if len(posts) == 0 {
			fmt.Fprintln(out, "No saved posts yet.")
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Saved posts (%d)", len(posts))))
		fmt.Fprintln(out)
		history := a.state.History()
		for _, p := range posts {
			renderPost(out, viewOf(a.state, p))
			if entry, ok := internal.FindEntryForPost(history, p.ID); ok {
				fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("  from %s · doomlearn feed %s", truncate(entry.SourceText, 50), entry.SessionID)))
			}
		}
		return nil
	},
}

func reasonList() string {
	names := make([]string, len(internal.DislikeReasons))
	for i, r := range internal.DislikeReasons {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func warnPersist(cmd *cobra.Command, a *app) {
	if err := a.state.LastPersistError(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render(fmt.Sprintf("Warning: change kept for this run only: %v", err)))
	}
}

func init() {
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(unsaveCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(savedCmd)

	hideCmd.Flags().StringVarP(&hideReason, "reason", "r", string(internal.ReasonNotRelevant), "Why you are hiding it: "+reasonList())
}
