package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

// recommendCmd suggests follow-up topics for a session
var recommendCmd = &cobra.Command{
	Use:     "recommend <session-id>",
	Aliases: []string{"next"},
	Short:   "Suggest topics to learn next",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var recs []string
		err = internal.ShowProgress(cmd.Context(), "Finding follow-up topics...", func(ctx context.Context, _ *internal.Spinner) error {
			var rerr error
			recs, rerr = a.feed.Recommendations(ctx, args[0])
			return rerr
		})
		if err != nil {
			return fmt.Errorf("could not get recommendations: %s", internal.UserMessage(err))
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No recommendations for this session.")
			return nil
		}
		fmt.Fprintln(out, headerStyle.Render("Learn next"))
		for i, r := range recs {
			fmt.Fprintf(out, "  %s %s\n", countStyle.Render(fmt.Sprintf("%d.", i+1)), r)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, idStyle.Render(fmt.Sprintf("💡 Tip: doomlearn new --topic %q", recs[0])))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
