package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/vlanaudit/pkg/cli"
	"github.com/newtron-network/vlanaudit/pkg/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persistent settings",
		Long: `Manage persistent settings stored in ~/.vlanaudit/settings.json (or --config).

Settings provide defaults for 'run' flags. Flags and VLANAUDIT_* environment
variables override them.

Available settings:
  ` + strings.Join(settings.Keys, ", ") + `

Examples:
  vlanaudit settings show
  vlanaudit settings set input /srv/h3c-dumps
  vlanaudit settings set core-names espcsw03,espcsw04
  vlanaudit settings clear`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := settings.LoadFrom(a.settingsPath)
				if err != nil {
					return fmt.Errorf("loading settings: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Settings file: %s\n\n", a.settingsPath)

				t := cli.NewTableTo(out, "SETTING", "VALUE", "EFFECTIVE")
				for _, key := range settings.Keys {
					value, _ := s.Get(key)
					if value == "" {
						value = "(not set)"
					}
					t.Row(key, value, effective(a, key))
				}
				t.Flush()
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <setting> <value>",
			Short: "Set a setting value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := settings.LoadFrom(a.settingsPath)
				if err != nil {
					s = &settings.Settings{}
				}
				if err := s.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := s.SaveTo(a.settingsPath); err != nil {
					return fmt.Errorf("saving settings: %w", err)
				}
				value, _ := s.Get(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <setting>",
			Short: "Get a setting value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := settings.LoadFrom(a.settingsPath)
				if err != nil {
					return fmt.Errorf("loading settings: %w", err)
				}
				value, err := s.Get(args[0])
				if err != nil {
					return err
				}
				if value == "" {
					value = "(not set)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear all settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s := &settings.Settings{}
				if err := s.SaveTo(a.settingsPath); err != nil {
					return fmt.Errorf("saving settings: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All settings cleared.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show settings file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), a.settingsPath)
			},
		},
	)
	return cmd
}

// effective renders the value a run would use after env and defaults.
func effective(a *app, key string) string {
	if key == settings.KeyCoreNames {
		return strings.Join(listValue(a.v.GetStringSlice(key)), ",")
	}
	return a.v.GetString(key)
}
