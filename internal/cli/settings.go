package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/sitelog/internal/store"
)

// settingKeys are the keys users may change; all take a positive number.
var settingKeys = []string{
	store.SettingLowProductivity,
	store.SettingRiskWindow,
	store.SettingMinConsecutive,
	store.SettingOnTrack,
	store.SettingSlightDelay,
}

func (c *CLI) createSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show delay rules and status bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := s.GetAllSettings()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(settings))
			for _, st := range settings {
				rows = append(rows, []string{st.Key, st.Value})
			}
			renderTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, rows)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a delay rule or status band",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, v := args[0], args[1]
			if !knownSetting(k) {
				return fmt.Errorf("unknown setting %q", k)
			}
			if f, err := strconv.ParseFloat(v, 64); err != nil || f <= 0 {
				return fmt.Errorf("setting %s: %q is not a positive number", k, v)
			}
			if (k == store.SettingRiskWindow || k == store.SettingMinConsecutive) && !isInt(v) {
				return fmt.Errorf("setting %s: %q is not a whole number", k, v)
			}

			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SetSetting(k, v); err != nil {
				return fmt.Errorf("save setting %s: %w", k, err)
			}
			c.logger.Info("setting changed", slog.String("key", k), slog.String("value", v))
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, v)
			return nil
		},
	})
	return cmd
}

func knownSetting(k string) bool {
	for _, s := range settingKeys {
		if s == k {
			return true
		}
	}
	return false
}

func isInt(v string) bool {
	_, err := strconv.Atoi(v)
	return err == nil
}
