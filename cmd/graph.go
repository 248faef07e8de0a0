package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var (
	graphNode       string
	graphRefresh    bool
	graphClearCache bool
)

// graphCmd prints the concept graph of a session
var graphCmd = &cobra.Command{
	Use:   "graph <session-id>",
	Short: "Show the concept graph of a session",
	Long: `Ask the backend for the concepts covered by a session's posts and how
they relate. With --node, the posts behind that concept are highlighted
and printed.

Graphs are cached per session and reused until the session's posts
change. Use --refresh to ask the backend again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		session, err := a.feed.Open(ctx, args[0])
		if err != nil {
			return err
		}

		graph, err := loadGraph(ctx, a, session)
		if err != nil {
			return fmt.Errorf("could not build the concept graph: %s", internal.UserMessage(err))
		}

		out := cmd.OutOrStdout()
		printGraph(out, graph)

		if graphNode == "" {
			return nil
		}
		node, err := a.feed.HighlightNode(graph, graphNode)
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionStyle.Render(fmt.Sprintf("Posts about %s", node.Label)))
		shown := 0
		for _, p := range a.state.VisiblePosts() {
			if a.state.IsHighlighted(p.ID) {
				renderPost(out, viewOf(a.state, p))
				shown++
			}
		}
		if shown == 0 {
			fmt.Fprintln(out, "No visible posts cover this concept.")
		}
		return nil
	},
}

// loadGraph returns the cached graph for session or fetches and caches it
func loadGraph(ctx context.Context, a *app, session *internal.ActiveSession) (*internal.KnowledgeGraph, error) {
	if a.cache != nil {
		if graphClearCache {
			if err := a.cache.ClearCache(); err != nil {
				internal.LogWarn("Failed to clear cache: %v", err)
			} else {
				internal.LogInfo("Cache cleared")
			}
		}
		if !graphRefresh {
			if graph, ok := a.cache.LoadGraph(session.ID, session.Posts); ok {
				internal.LogDebug("Using cached graph for %s", session.ID)
				return graph, nil
			}
		}
	}

	var graph *internal.KnowledgeGraph
	err := internal.ShowProgress(ctx, "Mapping concepts...", func(ctx context.Context, _ *internal.Spinner) error {
		var gerr error
		graph, gerr = a.feed.KnowledgeGraph(ctx, session.ID)
		return gerr
	})
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.SaveGraph(session.ID, session.Posts, graph); err != nil {
			internal.LogWarn("Failed to cache graph: %v", err)
		}
	}
	return graph, nil
}

func printGraph(w io.Writer, g *internal.KnowledgeGraph) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Concepts (%d)", len(g.Nodes))))
	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
		kind := ""
		if n.Type != "" {
			kind = " " + typeStyle.Render(n.Type)
		}
		fmt.Fprintf(w, "  %s%s %s %s\n",
			titleStyle.Render(n.Label), kind,
			idStyle.Render("["+n.ID+"]"),
			countStyle.Render(fmt.Sprintf("%d posts", len(n.PostIDs))))
	}
	if len(g.Edges) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Relationships"))
	for _, e := range g.Edges {
		rel := strings.TrimSpace(e.Relationship)
		if rel == "" {
			rel = "relates to"
		}
		fmt.Fprintf(w, "  %s %s %s\n", nodeLabel(labels, e.Source), dateStyle.Render("→ "+rel+" →"), nodeLabel(labels, e.Target))
	}
}

func nodeLabel(labels map[string]string, id string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return id
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVar(&graphNode, "node", "", "Highlight the posts behind this concept id")
	graphCmd.Flags().BoolVar(&graphRefresh, "refresh", false, "Ignore the cached graph")
	graphCmd.Flags().BoolVar(&graphClearCache, "clear-cache", false, "Clear every cached graph before running")
}
