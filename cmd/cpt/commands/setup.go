package commands

import (
	"errors"
	"log/slog"
	"os"

	"cpt/internal/config"
	"cpt/pkg/configutil"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-input"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prompt for api credentials and save them to cpt.local.json5.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configutil.LocalName(config.FileName)

		var existing config.Config
		_, err := os.Stat(path)
		if err == nil {
			existing, err = configutil.ReadConfig[config.Config](path)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			Fatal("failed to read existing local config", err)
		}

		ui := input.DefaultUI()
		ask := func(query, current string, mask bool) string {
			answer, err := ui.Ask(query, &input.Options{
				Default:     current,
				Mask:        mask,
				MaskDefault: mask,
				Loop:        false,
				HideOrder:   true,
			})
			if err != nil {
				Fatal("failed to read answer", err)
			}
			return answer
		}

		existing.Codeforces.ApiKey = ask("codeforces api key (https://codeforces.com/settings/api):", existing.Codeforces.ApiKey, false)
		existing.Codeforces.ApiSecret = ask("codeforces api secret:", existing.Codeforces.ApiSecret, true)
		existing.AdventOfCode.Session = ask("advent of code session cookie:", existing.AdventOfCode.Session, true)

		err = configutil.WriteConfig(path, existing)
		if err != nil {
			Fatal("failed to write local config", err)
		}
		slog.Info("saved credentials", "path", path)
	},
}
