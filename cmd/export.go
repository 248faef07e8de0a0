package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/doomlearn/internal"
	"github.com/iksnae/doomlearn/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportAll bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id...]",
	Short: "Export sessions to file",
	Long: `Export generated feeds to various formats (jsonl, md, yaml, json).

Pass one or more session ids, or --all to export every session in your
history. Use 'doomlearn history' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !exportAll {
			return fmt.Errorf("pass a session id or --all")
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var sessions []internal.Session
		err = internal.ShowProgress(cmd.Context(), "Collecting sessions", func(ctx context.Context, _ *internal.Spinner) error {
			var cerr error
			sessions, cerr = collectSessions(ctx, a, args)
			return cerr
		})
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			internal.PrintInfo("Nothing to export: your history is empty")
			return nil
		}

		// Ensure output directory exists
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		written := 0
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func(ctx context.Context, _ *internal.Spinner) error {
			for i := range sessions {
				if err := ctx.Err(); err != nil {
					return internal.ErrCanceled
				}
				path := filepath.Join(outputDir, fmt.Sprintf("%s.%s", sessions[i].ID, exporter.Extension()))
				if err := writeExport(exporter, &sessions[i], path); err != nil {
					internal.LogError("%v", err)
					continue
				}
				written++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if written < len(sessions) {
			return fmt.Errorf("exported %d of %d session(s) to %s", written, len(sessions), outputDir)
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d session(s) exported to %s", written, outputDir))
		return nil
	},
}

// collectSessions resolves ids against history first and the backend
// second. With no ids it returns the whole history.
func collectSessions(ctx context.Context, a *app, ids []string) ([]internal.Session, error) {
	history := a.state.History()
	if len(ids) == 0 {
		out := make([]internal.Session, 0, len(history))
		for _, e := range history {
			out = append(out, e.ToSession())
		}
		return out, nil
	}

	out := make([]internal.Session, 0, len(ids))
	for _, id := range ids {
		if e, ok := internal.FindHistoryEntry(history, id); ok {
			out = append(out, e.ToSession())
			continue
		}
		active, err := a.feed.Open(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w (use 'doomlearn history' to see available sessions)", id, err)
		}
		out = append(out, active.ToSession())
	}
	return out, nil
}

func writeExport(exporter export.Exporter, session *internal.Session, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &internal.ExportError{Format: format, Path: path, Err: cerr}
		}
	}()

	if err := exporter.Export(session, file); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every session in history")
}
