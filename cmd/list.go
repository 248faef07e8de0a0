package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

// historyCmd lists past sessions
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list"},
	Short:   "List past sessions",
	Long:    `List generated sessions, newest first. At most 50 are kept.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		displayHistory(cmd, a.state.History())
		return nil
	},
}

func displayHistory(cmd *cobra.Command, history []internal.HistoryEntry) {
	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions yet"))
		fmt.Fprintln(out, idStyle.Render(`💡 Tip: start one with doomlearn new --topic "..."`))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d session(s)", len(history))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Source")+"\t"+titleStyle.Render("Platform")+"\t"+titleStyle.Render("Posts")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	for _, e := range history {
		source := strings.Join(strings.Fields(e.SourceText), " ")
		if source == "" {
			source = "Untitled"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(e.SessionID),
			nameStyle.Render(truncate(source, 50)),
			string(e.Platform),
			countStyle.Render(fmt.Sprint(len(e.Posts))),
			dateStyle.Render(relativeTime(e)))
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: doomlearn feed ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(history[0].SessionID))
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
