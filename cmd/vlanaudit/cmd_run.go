package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newtron-network/vlanaudit/pkg/auditor"
	"github.com/newtron-network/vlanaudit/pkg/history"
	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/report"
	"github.com/newtron-network/vlanaudit/pkg/settings"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit a folder of configuration dumps",
		Long: `Audit every .cfg/.log/.txt file in the input folder and write a report.

Files describing the same device (same prompt or sysname) are merged.
Without --format the format follows the --output extension (.xlsx, .json,
.md); without --output the report is printed as a table.

Examples:
  vlanaudit run --input ./dumps --output audit.xlsx
  vlanaudit run --input ./dumps --format json > audit.json
  vlanaudit run --input ./dumps --core-names espcsw03,espcsw04 --role-map roles.yaml`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsHistory: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return runAudit(cmd.Context(), a.v, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringP(settings.KeyInput, "i", "", "Folder containing configuration dumps")
	f.StringP(settings.KeyOutput, "o", "", "Report path (stdout for json/markdown when empty)")
	f.StringP(settings.KeyFormat, "f", "", "Report format: xlsx, json, markdown, table")
	f.StringSlice(settings.KeyCoreNames, nil, "Devices treated as Core (default espcsw03)")
	f.String(settings.KeyAggSubstring, "", "Name substring marking Aggregation devices (default espac)")
	f.String(settings.KeyRoleMap, "", "YAML/JSON file mapping device to role")
	f.Int(settings.KeyWorkers, 0, "Parallel file readers (default one per CPU)")
	return cmd
}

// runAudit resolves configuration from v, runs the audit, writes the report
// and records the run in the history log.
func runAudit(ctx context.Context, v *viper.Viper, out io.Writer) error {
	output := v.GetString(settings.KeyOutput)
	format, err := resolveFormat(v.GetString(settings.KeyFormat), output)
	if err != nil {
		return err
	}
	if format == report.FormatXLSX && output == "" {
		return fmt.Errorf("xlsx reports need --output: %w", util.ErrInvalidConfig)
	}

	opts := auditor.Options{
		InputDir:     v.GetString(settings.KeyInput),
		Workers:      v.GetInt(settings.KeyWorkers),
		CoreNames:    listValue(v.GetStringSlice(settings.KeyCoreNames)),
		AggSubstring: v.GetString(settings.KeyAggSubstring),
		RoleMapPath:  v.GetString(settings.KeyRoleMap),
		RunID:        uuid.New().String(),
	}
	if opts.InputDir == "" {
		return fmt.Errorf("input folder required: use --input <dir>, set %s_INPUT, or run 'vlanaudit settings set input <dir>'", EnvPrefix)
	}

	start := time.Now()
	event := history.NewEvent(opts.RunID, currentUser(), opts.InputDir).WithOutput(output, string(format))

	r, err := auditor.Run(ctx, opts)
	if err == nil {
		err = writeReport(out, r, format, output)
	}
	event.WithDuration(time.Since(start))
	if err != nil {
		event.WithError(err)
	} else {
		event.WithResult(r.Summary.DevicesParsed, r.Summary.GlobalRows, colorCounts(r)).WithSuccess()
	}
	if herr := history.Log(event); herr != nil {
		util.Warnf("Could not record run history: %v", herr)
	}
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(out, "%s %s (%d devices, %d rows)\n",
			green("Report written:"), output, r.Summary.DevicesParsed, r.Summary.GlobalRows)
		if r.Summary.ColorCounts[model.ColorRed] > 0 {
			fmt.Fprintln(out, yellow(fmt.Sprintf("%d delete candidate row(s)", r.Summary.ColorCounts[model.ColorRed])))
		}
	}
	return nil
}

// resolveFormat applies --format, else infers the format from the output
// extension. No output means a terminal table.
func resolveFormat(format, output string) (report.Format, error) {
	if format != "" {
		return report.ParseFormat(format)
	}
	if output == "" {
		return report.FormatTable, nil
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".xlsx":
		return report.FormatXLSX, nil
	case ".json":
		return report.FormatJSON, nil
	case ".md", ".markdown":
		return report.FormatMarkdown, nil
	}
	return "", fmt.Errorf("cannot infer report format from %q: use --format", output)
}

func writeReport(out io.Writer, r *model.Report, format report.Format, output string) error {
	switch format {
	case report.FormatXLSX:
		return report.WriteXLSX(r, output)
	case report.FormatTable:
		if output != "" {
			return fmt.Errorf("table format prints to the terminal; drop --output or pick another format: %w", util.ErrInvalidConfig)
		}
		report.PrintTable(out, r)
		return nil
	}

	write := report.WriteJSON
	if format == report.FormatMarkdown {
		write = report.WriteMarkdown
	}
	if output == "" {
		return write(out, r)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := write(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return f.Close()
}

func colorCounts(r *model.Report) map[string]int {
	counts := make(map[string]int, len(r.Summary.ColorCounts))
	for c, n := range r.Summary.ColorCounts {
		counts[string(c)] = n
	}
	return counts
}
