package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/newtron-network/vlanaudit/pkg/model"
	"github.com/newtron-network/vlanaudit/pkg/util"
)

func sampleReport() *model.Report {
	return &model.Report{
		Summary: model.Summary{
			RunID:         "run-1",
			GeneratedAt:   time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
			InputDir:      "/dumps",
			DevicesParsed: 2,
			GlobalRows:    3,
			ColorCounts: map[model.Color]int{
				model.ColorGreen: 1, model.ColorWhite: 0, model.ColorYellow: 1, model.ColorRed: 1,
			},
		},
		Roles: []model.RoleRow{
			{Device: "espcsw03", Role: model.RoleCore},
			{Device: "sw1", Role: model.RoleAccess},
		},
		Global: []model.GlobalRow{
			{
				VLANs: util.Interval{Low: 10, High: 10}, VLANID: "10",
				Color: model.ColorGreen, Category: model.CategoryDescribed, Description: "Users|Staff",
				Devices:    model.RoleCounts{Total: 2, Core: 1, Access: 1},
				SVIDevices: []string{"espcsw03"}, AccessDevices: []string{"sw1"},
				TaggedDevices: []string{"espcsw03"}, SeenDevices: []string{"espcsw03", "sw1"},
				SVIIPs: []string{"10.0.10.1"},
			},
			{
				VLANs: util.Interval{Low: 30, High: 32}, VLANID: "30-32",
				Color: model.ColorRed, Category: model.CategoryDeleteCandidate,
				Description: "Declared by range 30-32; unused; no usage observed",
				Devices:     model.RoleCounts{Total: 1, Access: 1},
				SeenDevices: []string{"sw1"},
			},
			{
				VLANs: util.Interval{Low: 40, High: 40}, VLANID: "40",
				Color: model.ColorYellow, Category: model.CategoryVerify,
				Description: "Transit only (explicit trunk), 40-40",
				Devices:     model.RoleCounts{Total: 1, Core: 1},
			},
		},
		Devices: []model.DeviceSummaryRow{
			{Device: "sw1", Role: model.RoleAccess, VLANsDefined: 1, TaggedTrunk: "0"},
			{Device: "espcsw03", Role: model.RoleCore, VLANsDefined: 2, SVICount: 1, TaggedTrunk: model.TaggedAll},
		},
		Detail: []model.DeviceVLANRow{
			{Device: "espcsw03", Role: model.RoleCore, VLAN: 10, HasSVI: true, SVIIPs: []string{"10.0.10.1"}, Tagged: true, VLANName: "Users"},
			{Device: "sw1", Role: model.RoleAccess, VLAN: 10, HasAccess: true},
		},
		MatrixColumns: []model.MatrixColumn{
			{Device: "espcsw03", Role: model.RoleCore},
			{Device: "sw1", Role: model.RoleAccess},
		},
		Matrix: []model.MatrixRow{{VLAN: 10, Cells: []string{"S+T", "A"}}},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"xlsx": FormatXLSX, "JSON": FormatJSON, "markdown": FormatMarkdown, "md": FormatMarkdown, " table ": FormatTable,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "per_vlan_global")
	assert.Contains(t, doc, "matrix_columns")

	summary := doc["summary"].(map[string]interface{})
	assert.Equal(t, "run-1", summary["run_id"])
	counts := summary["color_counts"].(map[string]interface{})
	assert.EqualValues(t, 1, counts["Red"])

	global := doc["per_vlan_global"].([]interface{})
	require.Len(t, global, 3)
	first := global[0].(map[string]interface{})
	assert.Equal(t, "Described", first["usage_category"])
	assert.Equal(t, []interface{}{"10.0.10.1"}, first["svi_ips"])
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleReport()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# VLAN Audit Report: 2026-05-06 07:08:09\n"))
	assert.Contains(t, out, "| Red | Delete_Candidate | 1 |")
	assert.Contains(t, out, "## Per_VLAN_Global(Clarity)")
	assert.Contains(t, out, `| 10 | Green | Described | Users\|Staff | 2 | 1 | 0 | 1 |`)
	assert.Contains(t, out, "| VLAN_ID | espcsw03 [Core] | sw1 [Access] |")
	assert.Contains(t, out, "| 10 | S+T | A |")
}

func TestWriteMarkdown_EmptyTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, &model.Report{Summary: model.Summary{ColorCounts: map[model.Color]int{}}}))
	assert.Equal(t, 3, strings.Count(buf.String(), "_none_"))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, sampleReport())
	out := buf.String()

	assert.Contains(t, out, "2 devices, 3 rows")
	assert.Contains(t, out, "Red (Delete_Candidate)")
	assert.Contains(t, out, "30-32")
	assert.Contains(t, out, "Transit only (explicit trunk), 40-40")
	assert.Contains(t, out, "1/0/1")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "audit.xlsx")
	require.NoError(t, WriteXLSX(sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SheetExplain, SheetSummary, SheetRoles, SheetGlobal, SheetDevices, SheetDetail, SheetMatrix,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetGlobal)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, globalHeaders, rows[0])
	assert.Equal(t, []string{"10", "Green", "Described", "Users|Staff", "2", "1", "0", "1",
		"espcsw03", "sw1", "espcsw03", "10.0.10.1", "espcsw03, sw1"}, rows[1])
	assert.Equal(t, "30-32", rows[2][0])

	for i, want := range []string{"C6EFCE", "FFC7CE", "FFEB9C"} {
		for _, col := range []string{"A", "M"} {
			cell := col + string(rune('2'+i))
			id, err := f.GetCellStyle(SheetGlobal, cell)
			require.NoError(t, err)
			style, err := f.GetStyle(id)
			require.NoError(t, err)
			require.NotEmpty(t, style.Fill.Color, cell)
			assert.True(t, strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), want),
				"%s fill %s, want %s", cell, style.Fill.Color[0], want)
		}
	}

	explain, err := f.GetRows(SheetExplain)
	require.NoError(t, err)
	assert.Equal(t, "Input folder: /dumps", explain[1][1])

	matrix, err := f.GetRows(SheetMatrix)
	require.NoError(t, err)
	assert.Equal(t, []string{"VLAN_ID", "espcsw03 [Core]", "sw1 [Access]"}, matrix[0])
	assert.Equal(t, []string{"10", "S+T", "A"}, matrix[1])

	detail, err := f.GetRows(SheetDetail)
	require.NoError(t, err)
	assert.Equal(t, []string{"sw1", "Access", "10", "No", "", "Yes", "No"}, detail[2])
}
