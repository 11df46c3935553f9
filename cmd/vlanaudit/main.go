// vlanaudit - VLAN usage audit for H3C configuration dumps
//
// vlanaudit reads a folder of saved device configurations and "display"
// output (.cfg/.log/.txt), extracts per-device VLAN facts, merges them into
// a fleet view and classifies every declared VLAN as Described, In_Use,
// Verify or Delete_Candidate.
//
// Usage:
//
//	vlanaudit run --input <dir> --output audit.xlsx    Colored workbook
//	vlanaudit run --input <dir>                        Terminal table
//	vlanaudit facts sw1.cfg sw1.log --yaml             Dump extracted facts
//	vlanaudit history list --last 7d                   Past runs
//	vlanaudit settings set input /srv/dumps            Persist a default
//
// Configuration precedence: flag > VLANAUDIT_* environment > settings file >
// built-in default.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newtron-network/vlanaudit/pkg/cli"
	"github.com/newtron-network/vlanaudit/pkg/history"
	"github.com/newtron-network/vlanaudit/pkg/role"
	"github.com/newtron-network/vlanaudit/pkg/settings"
	"github.com/newtron-network/vlanaudit/pkg/util"
	"github.com/newtron-network/vlanaudit/pkg/version"
)

// EnvPrefix prefixes every environment override (VLANAUDIT_INPUT, ...).
const EnvPrefix = "VLANAUDIT"

// needsHistory marks commands that open the run history log.
const needsHistory = "history"

// app carries global flag values and state shared by all commands.
type app struct {
	verbose      bool
	logLevel     string
	logJSON      bool
	settingsPath string

	settings *settings.Settings
	v        *viper.Viper
	history  *history.FileLogger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "vlanaudit",
		Short:             "VLAN usage audit for H3C configuration dumps",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		Long: `vlanaudit classifies every VLAN declared across a fleet of H3C switches.

Green   Described         in use and named
White   In_Use            in use (SVI or access/PVID) without a name
Yellow  Verify            transit-only, or unused while some trunk permits ALL
Red     Delete_Candidate  declared but never used, tagged or carried

  vlanaudit run --input <dir> --output audit.xlsx`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output (debug logging)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Log as JSON")
	root.PersistentFlags().StringVar(&a.settingsPath, "config", "", "Settings file (default ~/.vlanaudit/settings.json)")

	root.AddGroup(
		&cobra.Group{ID: "audit", Title: "Audit:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)
	for _, cmd := range []*cobra.Command{newRunCmd(a), newFactsCmd()} {
		cmd.GroupID = "audit"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{newHistoryCmd(), newSettingsCmd(a), newVersionCmd()} {
		cmd.GroupID = "meta"
		root.AddCommand(cmd)
	}
	return root
}

// init configures logging, loads settings and layers configuration. The
// settings file and history log are boundary resources: a broken settings
// file is reported but does not stop commands that can run without it.
func (a *app) init(cmd *cobra.Command) error {
	switch {
	case a.logLevel != "":
		if err := util.SetLogLevel(a.logLevel); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
		}
	case a.verbose:
		util.SetLogLevel("debug")
	default:
		util.SetLogLevel("warn")
	}
	if a.logJSON {
		util.SetJSONFormat()
	}
	util.SetLogOutput(cmd.ErrOrStderr())

	if a.settingsPath == "" {
		a.settingsPath = settings.DefaultSettingsPath()
	}
	s, err := settings.LoadFrom(a.settingsPath)
	if err != nil {
		util.Warnf("Could not load settings: %v", err)
		s = &settings.Settings{}
	}
	a.settings = s

	a.v, err = newViper(s)
	if err != nil {
		return err
	}

	if _, ok := cmd.Annotations[needsHistory]; ok {
		a.openHistory()
	}
	return nil
}

// newViper layers built-in defaults beneath the settings file and the
// environment. Command flags are bound on top by each command.
func newViper(s *settings.Settings) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(settings.KeyFormat, "")
	v.SetDefault(settings.KeyCoreNames, role.DefaultCoreNames)
	v.SetDefault(settings.KeyAggSubstring, role.DefaultAggSubstring)
	v.SetDefault(settings.KeyWorkers, runtime.NumCPU())
	v.SetDefault(settings.KeyHistory, settings.DefaultHistoryPath())

	if err := v.MergeConfigMap(s.ConfigMap()); err != nil {
		return nil, fmt.Errorf("layering settings: %w", err)
	}
	return v, nil
}

// openHistory installs the history log as the default history logger.
// Failure is a warning: audits still run without history.
func (a *app) openHistory() {
	path := a.v.GetString(settings.KeyHistory)
	l, err := history.NewFileLogger(path, history.DefaultRotation)
	if err != nil {
		util.Warnf("Could not open run history: %v", err)
		return
	}
	a.history = l
	history.SetDefaultLogger(l)
}

func (a *app) close() {
	if a.history != nil {
		history.SetDefaultLogger(nil)
		a.history.Close()
		a.history = nil
	}
}

// listValue flattens list settings that may arrive comma-joined (from the
// environment) or as a slice (from flags and the settings file).
func listValue(items []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, util.SplitCommaSeparated(item)...)
	}
	return out
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version.IsDev() {
				fmt.Fprintln(cmd.OutOrStdout(), "vlanaudit dev build (no version ldflags)")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "vlanaudit %s\n", version.Info())
			}
		},
	}
}

// Color helpers delegate to pkg/cli
func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
