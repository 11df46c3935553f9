package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/newtron-network/vlanaudit/pkg/model"
)

// RowFills are the solid fills applied to whole global rows, keyed by color.
var RowFills = map[model.Color]string{
	model.ColorGreen:  "C6EFCE",
	model.ColorWhite:  "FFFFFF",
	model.ColorYellow: "FFEB9C",
	model.ColorRed:    "FFC7CE",
}

type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
}

func sheets(r *model.Report) []sheet {
	s := []sheet{
		{name: SheetExplain, headers: explainHeaders, rows: explainRows(r)},
		{name: SheetSummary, headers: summaryHeaders, rows: [][]interface{}{summaryRow(r)}},
		{name: SheetRoles, headers: roleHeaders},
		{name: SheetGlobal, headers: globalHeaders},
		{name: SheetDevices, headers: deviceHeaders},
		{name: SheetDetail, headers: detailHeaders},
		{name: SheetMatrix, headers: matrixHeaders(r)},
	}
	for _, row := range r.Roles {
		s[2].rows = append(s[2].rows, roleRow(row))
	}
	for _, row := range r.Global {
		s[3].rows = append(s[3].rows, globalRow(row))
	}
	for _, row := range r.Devices {
		s[4].rows = append(s[4].rows, deviceRow(row))
	}
	for _, row := range r.Detail {
		s[5].rows = append(s[5].rows, detailRow(row))
	}
	for _, row := range r.Matrix {
		s[6].rows = append(s[6].rows, matrixRow(row))
	}
	return s
}

// WriteXLSX writes the report as a workbook with one sheet per table. Rows
// of the global sheet are filled according to their color.
func WriteXLSX(r *model.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, sh := range sheets(r) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			return fmt.Errorf("writing sheet %s: %w", sh.name, err)
		}
	}

	if err := colorGlobalRows(f, r); err != nil {
		return fmt.Errorf("coloring rows: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	header := make([]interface{}, len(sh.headers))
	for i, h := range sh.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(sh.headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sh.name, "A", lastCol, 18)
}

func colorGlobalRows(f *excelize.File, r *model.Report) error {
	styles := make(map[model.Color]int, len(RowFills))
	for color, fill := range RowFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		})
		if err != nil {
			return err
		}
		styles[color] = id
	}

	for i, row := range r.Global {
		id, ok := styles[row.Color]
		if !ok {
			continue
		}
		first, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(globalHeaders), i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetGlobal, first, last, id); err != nil {
			return err
		}
	}
	return nil
}
