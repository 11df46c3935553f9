package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/newtron-network/vlanaudit/pkg/cli"
	"github.com/newtron-network/vlanaudit/pkg/model"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteMarkdown writes a markdown report: summary, the global VLAN table,
// the per-device summary and the VLAN x device matrix.
func WriteMarkdown(w io.Writer, r *model.Report) error {
	var b strings.Builder
	writeMarkdown(&b, r)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdown(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "# VLAN Audit Report: %s\n\n", r.Summary.GeneratedAt.Format(DateTimeFormat))
	if r.Summary.InputDir != "" {
		fmt.Fprintf(w, "Input: `%s`  \n", r.Summary.InputDir)
	}
	fmt.Fprintf(w, "Run: `%s`  \n", r.Summary.RunID)
	fmt.Fprintf(w, "Devices parsed: %d\n\n", r.Summary.DevicesParsed)

	fmt.Fprintln(w, "| Color | Category | Rows |")
	fmt.Fprintln(w, "|-------|----------|------|")
	for _, c := range model.Colors {
		fmt.Fprintf(w, "| %s | %s | %d |\n", c, model.CategoryFor(c), r.Summary.ColorCounts[c])
	}

	fmt.Fprintf(w, "\n## %s\n\n", SheetGlobal)
	writeMarkdownTable(w, globalHeaders, len(r.Global), func(i int) []interface{} {
		return globalRow(r.Global[i])
	})

	fmt.Fprintf(w, "\n## %s\n\n", SheetDevices)
	writeMarkdownTable(w, deviceHeaders, len(r.Devices), func(i int) []interface{} {
		return deviceRow(r.Devices[i])
	})

	fmt.Fprintf(w, "\n## %s\n\n", SheetMatrix)
	writeMarkdownTable(w, matrixHeaders(r), len(r.Matrix), func(i int) []interface{} {
		return matrixRow(r.Matrix[i])
	})
}

func writeMarkdownTable(w io.Writer, headers []string, n int, row func(i int) []interface{}) {
	if n == 0 {
		fmt.Fprintln(w, "_none_")
		return
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
	seps := make([]string, len(headers))
	for i, h := range headers {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintf(w, "|%s|\n", "-"+strings.Join(seps, "-|-")+"-")
	for i := 0; i < n; i++ {
		cells := toStrings(row(i))
		for j, c := range cells {
			cells[j] = strings.ReplaceAll(c, "|", `\|`)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

// PrintTable writes a terminal summary: per-color counts and the global VLAN
// table with the color column painted.
func PrintTable(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "%s  %d devices, %d rows\n\n",
		cli.Bold("VLAN audit"), r.Summary.DevicesParsed, r.Summary.GlobalRows)
	for _, c := range model.Colors {
		label := fmt.Sprintf("%s (%s)", c, model.CategoryFor(c))
		fmt.Fprintf(w, "  %s %s\n", cli.DotPad(label, 30), cli.Paint(string(c), fmt.Sprint(r.Summary.ColorCounts[c])))
	}
	fmt.Fprintln(w)

	t := cli.NewTableTo(w, "VLAN", "COLOR", "CATEGORY", "DESCRIPTION", "DEVICES", "C/A/X", "SVI IPS")
	for _, row := range r.Global {
		t.Row(
			row.VLANID,
			cli.Paint(string(row.Color), string(row.Color)),
			string(row.Category),
			row.Description,
			fmt.Sprint(row.Devices.Total),
			fmt.Sprintf("%d/%d/%d", row.Devices.Core, row.Devices.Aggregation, row.Devices.Access),
			join(row.SVIIPs),
		)
	}
	t.Flush()
}
