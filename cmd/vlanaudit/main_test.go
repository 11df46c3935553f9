package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/vlanaudit/internal/testutil"
	"github.com/newtron-network/vlanaudit/pkg/history"
	"github.com/newtron-network/vlanaudit/pkg/report"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

// execute runs the CLI with a private HOME so settings and history stay in
// the test's temp dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(testutil.Context(t))
	a.close()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func historyEvents(t *testing.T, args ...string) []history.Event {
	t.Helper()
	out, err := execute(t, append([]string{"history", "list", "--json"}, args...)...)
	require.NoError(t, err)
	var events []history.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	return events
}

func TestRun_XLSXAndHistory(t *testing.T) {
	isolate(t)
	dir := testutil.FleetDir(t)
	path := filepath.Join(t.TempDir(), "out", "audit.xlsx")

	out, err := execute(t, "run", "--input", dir, "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written:")
	assert.Contains(t, out, "(3 devices, 9 rows)")
	_, err = os.Stat(path)
	require.NoError(t, err)

	events := historyEvents(t)
	require.Len(t, events, 1)
	e := events[0]
	assert.True(t, e.Success)
	assert.Equal(t, dir, e.InputDir)
	assert.Equal(t, path, e.Output)
	assert.Equal(t, "xlsx", e.Format)
	assert.Equal(t, 3, e.Devices)
	assert.Equal(t, 9, e.Rows)
	assert.Equal(t, 5, e.ColorCounts["Yellow"])

	assert.Len(t, historyEvents(t, "--user", currentUser(), "--input", dir), 1)
	assert.Empty(t, historyEvents(t, "--user", "no-such-user"))
	assert.Empty(t, historyEvents(t, "--input", filepath.Join(dir, "other")))
}

func TestRun_JSONToStdout(t *testing.T) {
	isolate(t)
	out, err := execute(t, "run", "--input", testutil.FleetDir(t), "--format", "json")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["per_vlan_global"], 9)
}

func TestRun_TableIsDefault(t *testing.T) {
	isolate(t)
	out, err := execute(t, "run", "--input", testutil.FleetDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "3 devices, 9 rows")
	assert.Contains(t, out, "100-105")
}

func TestRun_SettingsAndEnvLayering(t *testing.T) {
	home := isolate(t)
	dir := testutil.FleetDir(t)
	cfg := filepath.Join(home, "alt", "settings.json")

	_, err := execute(t, "--config", cfg, "settings", "set", "input", dir)
	require.NoError(t, err)
	_, err = execute(t, "--config", cfg, "settings", "set", "core-names", "espac01")
	require.NoError(t, err)

	// settings file supplies input and core names
	out, err := execute(t, "--config", cfg, "run", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| espac01 | Core |")

	// environment overrides the settings file
	t.Setenv("VLANAUDIT_CORE_NAMES", "sw1,espac01")
	out, err = execute(t, "--config", cfg, "run", "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "| sw1 | Core |")
	assert.Contains(t, out, "| espac01 | Core |")

	// flags override the environment
	out, err = execute(t, "--config", cfg, "run", "--format", "md", "--core-names", "espcsw03")
	require.NoError(t, err)
	assert.Contains(t, out, "| espcsw03 | Core |")
	assert.Contains(t, out, "| sw1 | Access |")
}

func TestRun_Errors(t *testing.T) {
	isolate(t)
	dir := testutil.FleetDir(t)

	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input folder required")

	_, err = execute(t, "run", "--input", dir, "--format", "xlsx")
	assert.True(t, errors.Is(err, util.ErrInvalidConfig), "xlsx without output: %v", err)

	_, err = execute(t, "run", "--input", dir, "--format", "csv")
	assert.Error(t, err)

	_, err = execute(t, "run", "--input", dir, "--format", "table", "--output", filepath.Join(t.TempDir(), "x.txt"))
	assert.True(t, errors.Is(err, util.ErrInvalidConfig), "table with output: %v", err)

	_, err = execute(t, "run", "--input", filepath.Join(dir, "missing"))
	require.Error(t, err)

	failed := historyEvents(t, "--failures")
	require.NotEmpty(t, failed)
	assert.False(t, failed[0].Success)
	assert.NotEmpty(t, failed[0].Error)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, output string
		want           report.Format
		wantErr        bool
	}{
		{"", "", report.FormatTable, false},
		{"", "a/b.XLSX", report.FormatXLSX, false},
		{"", "r.json", report.FormatJSON, false},
		{"", "r.md", report.FormatMarkdown, false},
		{"", "r.markdown", report.FormatMarkdown, false},
		{"", "r.csv", "", true},
		{"json", "r.xlsx", report.FormatJSON, false},
		{"bogus", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.output)
		if tt.wantErr {
			assert.Error(t, err, "%q/%q", tt.format, tt.output)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q/%q", tt.format, tt.output)
	}
}

func TestParseLast(t *testing.T) {
	for in, want := range map[string]time.Duration{
		"24h": 24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"90m": 90 * time.Minute,
	} {
		got, err := parseLast(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "soon", "-1h", "xd"} {
		_, err := parseLast(in)
		assert.Error(t, err, in)
	}
}

func TestListValue(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, listValue([]string{"a,b", " c ", ""}))
	assert.Nil(t, listValue(nil))
}

func TestFacts(t *testing.T) {
	isolate(t)
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"a.cfg":    "<sw1>\nvlan 10\n name Users\n",
		"b.log":    "<sw1.corp>\ninterface GigabitEthernet1/0/1\n port access vlan 10\n#\n",
		"c.txt":    "   \n",
		"core.cfg": testutil.CoreDump,
	})
	files := []string{
		filepath.Join(dir, "a.cfg"), filepath.Join(dir, "b.log"),
		filepath.Join(dir, "c.txt"), filepath.Join(dir, "core.cfg"),
	}

	out, err := execute(t, append([]string{"facts"}, files...)...)
	require.NoError(t, err)
	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc, 2)
	assert.Contains(t, doc, "espcsw03")
	assert.Equal(t, map[string]interface{}{"10": "Users"}, doc["sw1"]["vlan_names"])
	assert.Equal(t, []interface{}{float64(10)}, doc["sw1"]["access"])

	out, err = execute(t, "facts", "--json", files[0])
	require.NoError(t, err)
	var explicit map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &explicit))
	assert.Contains(t, explicit, "sw1")

	out, err = execute(t, "facts", "--yaml", files[0])
	require.NoError(t, err)
	var y map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &y))
	assert.Contains(t, y, "sw1")

	_, err = execute(t, "facts", "--json", "--yaml", files[0])
	assert.Error(t, err)

	_, err = execute(t, "facts", filepath.Join(dir, "missing.cfg"))
	assert.Error(t, err)
}

func TestSettingsCommands(t *testing.T) {
	isolate(t)

	_, err := execute(t, "settings", "set", "workers", "4")
	require.NoError(t, err)
	out, err := execute(t, "settings", "get", "workers")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "EFFECTIVE")
	assert.Contains(t, out, "espac")

	_, err = execute(t, "settings", "set", "colour", "blue")
	assert.Error(t, err)

	_, err = execute(t, "settings", "clear")
	require.NoError(t, err)
	out, err = execute(t, "settings", "get", "workers")
	require.NoError(t, err)
	assert.Equal(t, "(not set)\n", out)

	out, err = execute(t, "settings", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join(".vlanaudit", "settings.json")))
}

func TestHistory_Empty(t *testing.T) {
	isolate(t)
	out, err := execute(t, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded\n", out)
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vlanaudit dev build")
}
