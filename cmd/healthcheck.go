package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var healthcheckDetails bool

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check config, local storage and the backend",
	Long: `Check the health of doomlearn by verifying:
  • Configuration loads and validates
  • Local storage opens and reads
  • The backend answers its health endpoint

This command is useful for debugging setup issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg        *internal.Config
			state      *internal.State
			health     *internal.Health
			latency    time.Duration
			stepErr    error
			backendErr error
		)
		steps := []internal.ProgressStep{
			{Message: "Loading configuration", Fn: func(ctx context.Context) error {
				cfg, stepErr = loadConfig()
				return stepErr
			}},
			{Message: "Opening local storage", Fn: func(ctx context.Context) error {
				persister, err := internal.OpenPersister(cfg)
				if err != nil {
					stepErr = err
					return err
				}
				state = internal.NewState(persister)
				return nil
			}},
			{Message: "Contacting backend", Fn: func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				started := time.Now()
				health, backendErr = newBackend(cfg).Health(ctx)
				latency = time.Since(started)
				return backendErr
			}},
		}
		runErr := internal.ShowProgressWithSteps(cmd.Context(), steps)
		if state != nil {
			defer state.Close()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 DoomLearn Health Check"))
		fmt.Fprintln(out)

		if cfg == nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Configuration is invalid:"), stepErr)
			return fmt.Errorf("health check failed: %w", stepErr)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Backend: %s\n", cfg.APIURL)
			fmt.Fprintf(out, "   Timeout: %s\n", cfg.Timeout())
		}

		if state == nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open storage:"), stepErr)
			return fmt.Errorf("health check failed: %w", stepErr)
		}
		snap := state.Snapshot()
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s storage ready", cfg.Storage)))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Directory: %s\n", cfg.DataDir)
			if size, ok := storageSize(cfg); ok {
				fmt.Fprintf(out, "   Size: %s\n", humanize.Bytes(uint64(size)))
			}
			fmt.Fprintf(out, "   History: %d session(s), %d saved, %d liked, %d hidden\n",
				len(snap.History), len(snap.SavedPosts), len(snap.LikedPostIDs), len(snap.HiddenPostIDs))
		}
		if state.Credentials().Empty() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  No API keys set; generation relies on the backend's own keys"))
		}

		if health == nil {
			if backendErr == nil {
				backendErr = runErr
			}
			fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), internal.UserMessage(backendErr))
			fmt.Fprintln(out)
			fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintf(out, "   • Is the backend running at %s?\n", cfg.APIURL)
			return fmt.Errorf("health check failed: backend unreachable")
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Backend status: %s", health.Status)))
		if healthcheckDetails {
			fmt.Fprintf(out, "   Latency: %s\n", latency.Round(time.Millisecond))
			for _, p := range health.Providers {
				fmt.Fprintf(out, "   Provider: %s\n", p)
			}
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("   • Sessions: %d in history", len(snap.History))))
		return nil
	},
}

func storageSize(cfg *internal.Config) (int64, bool) {
	name := internal.StateFileName
	if cfg.Storage == internal.StorageSQLite {
		name = internal.StateDBName
	}
	info, err := os.Stat(filepath.Join(cfg.DataDir, name))
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
