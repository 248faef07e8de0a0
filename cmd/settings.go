package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/doomlearn/internal"
	"github.com/spf13/cobra"
)

var (
	settingsGeminiKey  string
	settingsMinimaxKey string
	settingsPlatform   string
	settingsCount      int
	settingsShow       bool
)

// settingsCmd shows and changes provider keys and feed defaults
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change API keys and feed defaults",
	Long: `Without flags, or with --show, print the current settings. API keys are stored in local
state and sent to the backend with every generation request; pass an empty
value to clear one. --platform and --count are written to config.yaml.`,
	Example: `  doomlearn settings
  doomlearn settings --gemini-key AIza...
  doomlearn settings --minimax-key ""
  doomlearn settings --platform twitter --count 15`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		flags := cmd.Flags()
		out := cmd.OutOrStdout()

		if flags.Changed("gemini-key") {
			a.state.SetGeminiAPIKey(settingsGeminiKey)
			fmt.Fprintln(out, successStyle.Render("Gemini API key updated"))
		}
		if flags.Changed("minimax-key") {
			a.state.SetMinimaxAPIKey(settingsMinimaxKey)
			fmt.Fprintln(out, successStyle.Render("MiniMax API key updated"))
		}
		warnPersist(cmd, a)

		if flags.Changed("platform") || flags.Changed("count") {
			if err := saveDefaults(a.cfg, flags.Changed("platform"), flags.Changed("count")); err != nil {
				return err
			}
			fmt.Fprintln(out, successStyle.Render("Feed defaults saved"))
		}

		changed := flags.Changed("gemini-key") || flags.Changed("minimax-key") ||
			flags.Changed("platform") || flags.Changed("count")
		if !changed || settingsShow {
			printSettings(cmd, a)
		}
		return nil
	},
}

func saveDefaults(cfg *internal.Config, platform, count bool) error {
	path, paths, err := resolveConfigPath()
	if err != nil {
		return err
	}
	// Write back the file contents, not the flag-overridden runtime config
	onDisk, err := internal.LoadConfig(path, paths)
	if err != nil {
		return err
	}
	if platform {
		p, err := internal.ParsePlatform(settingsPlatform)
		if err != nil {
			return err
		}
		onDisk.Platform = string(p)
		cfg.Platform = string(p)
	}
	if count {
		onDisk.PostCount = settingsCount
		if err := onDisk.Validate(); err != nil {
			return err
		}
		cfg.PostCount = settingsCount
	}
	if err := onDisk.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	internal.LogDebug("Saved config to %s", path)
	return nil
}

func printSettings(cmd *cobra.Command, a *app) {
	out := cmd.OutOrStdout()
	creds := a.state.Credentials()

	fmt.Fprintln(out, sectionStyle.Render("Settings"))
	rows := [][2]string{
		{"Backend", a.cfg.APIURL},
		{"Platform", a.cfg.Platform},
		{"Posts per feed", fmt.Sprint(a.cfg.PostCount)},
		{"Storage", a.cfg.Storage + " in " + a.cfg.DataDir},
		{"Gemini key", maskKey(creds.GeminiAPIKey)},
		{"MiniMax key", maskKey(creds.MinimaxAPIKey)},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %-16s %s\n", r[0]+":", r[1])
	}
	if creds.Empty() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, idStyle.Render("💡 Tip: without keys the backend uses its own providers, if it has any"))
	}
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().StringVar(&settingsGeminiKey, "gemini-key", "", "Gemini API key (empty clears it)")
	settingsCmd.Flags().StringVar(&settingsMinimaxKey, "minimax-key", "", "MiniMax API key (empty clears it)")
	settingsCmd.Flags().StringVar(&settingsPlatform, "platform", "", "Default feed style: "+strings.Join([]string{string(internal.PlatformReddit), string(internal.PlatformTwitter)}, " or "))
	settingsCmd.Flags().IntVar(&settingsCount, "count", 0, "Default number of posts per feed (1-50)")
	settingsCmd.Flags().BoolVar(&settingsShow, "show", false, "Print the settings after changing them")
}
