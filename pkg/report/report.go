// Package report renders an audit report as an xlsx workbook, JSON, markdown
// or a terminal table.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/newtron-network/vlanaudit/pkg/model"
)

// DateTimeFormat is used for timestamps in rendered reports.
const DateTimeFormat = "2006-01-02 15:04:05"

// Format names an output renderer.
type Format string

const (
	FormatXLSX     Format = "xlsx"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTable    Format = "table"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatXLSX, FormatJSON, FormatMarkdown, FormatTable}

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatJSON, FormatMarkdown, FormatTable:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want xlsx, json, markdown or table)", s)
}

// Sheet names, in workbook order.
const (
	SheetExplain = "Explain"
	SheetSummary = "Summary"
	SheetRoles   = "Roles"
	SheetGlobal  = "Per_VLAN_Global(Clarity)"
	SheetDevices = "Per_Device_Summary"
	SheetDetail  = "Per_Device_VLAN_Detail"
	SheetMatrix  = "VLAN x Device Matrix"
)

var (
	explainHeaders = []string{"Summary", "Notes"}
	summaryHeaders = []string{
		"Generated", "Run_ID", "Devices_Parsed", "Per_VLAN_Global_Rows",
		"Green(Described)", "White(In_Use)", "Yellow(Verify)", "Red(Delete_Candidate)",
	}
	roleHeaders   = []string{"Device", "Role"}
	globalHeaders = []string{
		"VLAN_ID", "Color", "Usage_Category", "Description",
		"Devices_Total", "Devices_Core", "Devices_Aggregation", "Devices_Access",
		"Devices_with_SVI", "Devices_with_Access(PVID/Untagged)", "Devices_with_Tagged_Trunk",
		"SVI_IPs", "Devices_with_VLAN_Config(Seen)",
	}
	deviceHeaders = []string{"Device", "Role", "VLANs_Defined", "SVI_Count", "Tagged_Trunk_VLANs(Count)"}
	detailHeaders = []string{"Device", "Role", "VLAN_ID", "SVI?", "SVI_IPs", "Access?", "Tagged on Trunk/Hybrid?", "VLAN_Name"}
)

var explainText = []string{
	"VLAN audit across the configuration dumps of one fleet.",
	"In-use VLANs (SVI/Access) are listed individually; transit-only and unused declared VLANs are grouped as contiguous ranges.",
	"Color rules: Green=has name/description; White=in use without name; Yellow=transit-only or verify (a trunk permitting ALL exists); Red=delete candidate (no SVI/Access/explicit trunk and no trunk ALL).",
	"Tagged_Trunk_VLANs(Count)=ALL if any port has 'port trunk permit vlan all' or 'permit vlan 2 to 4094'. 'undo port trunk permit vlan N' is recorded per port but not subtracted.",
}

func explainRows(r *model.Report) [][]interface{} {
	rows := make([][]interface{}, len(explainText))
	for i, line := range explainText {
		note := ""
		if i == 0 {
			note = "Input folder: " + r.Summary.InputDir
		}
		rows[i] = []interface{}{line, note}
	}
	return rows
}

func summaryRow(r *model.Report) []interface{} {
	s := r.Summary
	return []interface{}{
		s.GeneratedAt.Format(DateTimeFormat), s.RunID, s.DevicesParsed, s.GlobalRows,
		s.ColorCounts[model.ColorGreen], s.ColorCounts[model.ColorWhite],
		s.ColorCounts[model.ColorYellow], s.ColorCounts[model.ColorRed],
	}
}

func roleRow(row model.RoleRow) []interface{} {
	return []interface{}{row.Device, string(row.Role)}
}

func globalRow(row model.GlobalRow) []interface{} {
	return []interface{}{
		row.VLANID, string(row.Color), string(row.Category), row.Description,
		row.Devices.Total, row.Devices.Core, row.Devices.Aggregation, row.Devices.Access,
		join(row.SVIDevices), join(row.AccessDevices), join(row.TaggedDevices),
		join(row.SVIIPs), join(row.SeenDevices),
	}
}

func deviceRow(row model.DeviceSummaryRow) []interface{} {
	return []interface{}{row.Device, string(row.Role), row.VLANsDefined, row.SVICount, row.TaggedTrunk}
}

func detailRow(row model.DeviceVLANRow) []interface{} {
	return []interface{}{
		row.Device, string(row.Role), row.VLAN, yesNo(row.HasSVI), join(row.SVIIPs),
		yesNo(row.HasAccess), yesNo(row.Tagged), row.VLANName,
	}
}

func matrixHeaders(r *model.Report) []string {
	h := []string{"VLAN_ID"}
	for _, c := range r.MatrixColumns {
		h = append(h, c.Header())
	}
	return h
}

func matrixRow(row model.MatrixRow) []interface{} {
	out := []interface{}{row.VLAN}
	for _, c := range row.Cells {
		out = append(out, c)
	}
	return out
}

func join(items []string) string {
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func toStrings(vals []interface{}) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case string:
			out[i] = x
		case int:
			out[i] = strconv.Itoa(x)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}
