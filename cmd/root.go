package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	storageKind string
	dataDir     string
	apiURL      string
	ephemeral   bool
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doomlearn",
	Short: "Learn anything as a social media feed",
	Long: `Turn a topic, a web page or a PDF into a generated social media feed.

doomlearn talks to a DoomLearn backend which ingests your source material
and writes Reddit or Twitter style posts about it. Likes, saves, hidden
posts and your session history are kept locally between runs.

Quick Start:
  doomlearn new --topic "how vinyl records work"    # Generate a feed
  doomlearn history                                  # Past sessions
  doomlearn feed <session-id>                        # Read a session again
  doomlearn graph <session-id>                       # Concept map

Configuration lives in config.yaml under your config directory, or pass
--config. DOOMLEARN_API_URL, DOOMLEARN_DATA_DIR and DOOMLEARN_STORAGE
override the file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

func execute() error {
	err := rootCmd.Execute()
	if err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", "", "Local storage backend (json or sqlite)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for local state")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep state in memory only for this run")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
