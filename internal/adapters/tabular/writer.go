package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// Sheet names used in generated workbooks.
const (
	TemplateSheet = "Trackers"
	ReportSheet   = "Report"
	WarningSheet  = "Warnings"
)

// ReportColumns is the header of classification reports.
var ReportColumns = []string{"creative_id", "event_type", "url", "status"}

// WarningColumns is the header of the report's warnings sheet.
var WarningColumns = []string{"creative_id", "line", "code", "message"}

// Creative groups alternate between these fills so edits stay readable.
var groupFills = [2]string{"FFFFFF", "E7E6E6"}

var statusFills = map[domain.ChangeStatus]string{
	domain.StatusAdded:   "C6EFCE",
	domain.StatusUpdated: "BDD7EE",
	domain.StatusDeleted: "FFC7CE",
}

// WriteTemplateXLSX writes the editable export sheet. Rows of one creative
// share a background; consecutive creatives alternate.
func WriteTemplateXLSX(w io.Writer, rows []domain.TemplateRow) error {
	f, err := newWorkbook(TemplateSheet, TemplateColumns)
	if err != nil {
		return err
	}
	defer f.Close()

	fills := make([]int, len(groupFills))
	for i, color := range groupFills {
		if fills[i], err = fillStyle(f, color); err != nil {
			return err
		}
	}

	group := -1
	prev := ""
	for i, row := range rows {
		if i == 0 || row.CreativeID != prev {
			group++
			prev = row.CreativeID
		}
		values := []interface{}{row.AdvertiserID, row.CreativeID, row.CreativeName, row.EventType, row.ExistingURL, row.NewURL}
		if err := writeRow(f, TemplateSheet, i+2, values, fills[group%2]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(TemplateSheet, "A", "D", 20); err != nil {
		return fmt.Errorf("tabular: set column width: %w", err)
	}
	if err := f.SetColWidth(TemplateSheet, "E", "F", 60); err != nil {
		return fmt.Errorf("tabular: set column width: %w", err)
	}
	return save(f, w)
}

// WriteReportXLSX writes one row per classified tracker, colored by status.
// Warnings, when given, go to a second sheet keyed by sheet line.
func WriteReportXLSX(w io.Writer, rows []domain.ReportRow, warnings ...domain.ItemWarning) error {
	f, err := newWorkbook(ReportSheet, ReportColumns)
	if err != nil {
		return err
	}
	defer f.Close()

	styles := make(map[domain.ChangeStatus]int, len(statusFills))
	for status, color := range statusFills {
		if styles[status], err = fillStyle(f, color); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.CreativeID, row.EventType, row.URL, string(row.Status)}
		if err := writeRow(f, ReportSheet, i+2, values, styles[row.Status]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ReportSheet, "C", "C", 60); err != nil {
		return fmt.Errorf("tabular: set column width: %w", err)
	}
	if len(warnings) > 0 {
		if err := writeWarnings(f, warnings); err != nil {
			return err
		}
	}
	return save(f, w)
}

func writeWarnings(f *excelize.File, warnings []domain.ItemWarning) error {
	if _, err := f.NewSheet(WarningSheet); err != nil {
		return fmt.Errorf("tabular: add sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("tabular: header style: %w", err)
	}
	header := make([]interface{}, len(WarningColumns))
	for i, h := range WarningColumns {
		header[i] = h
	}
	if err := writeRow(f, WarningSheet, 1, header, bold); err != nil {
		return err
	}
	for i, wn := range warnings {
		var line interface{} = ""
		if wn.Line > 0 {
			line = wn.Line
		}
		values := []interface{}{wn.CreativeID, line, wn.Code, wn.Message}
		if err := writeRow(f, WarningSheet, i+2, values, 0); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(WarningSheet, "D", "D", 80); err != nil {
		return fmt.Errorf("tabular: set column width: %w", err)
	}
	return nil
}

// WriteReportCSV writes the classification report as CSV.
func WriteReportCSV(w io.Writer, rows []domain.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportColumns); err != nil {
		return fmt.Errorf("tabular: write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.CreativeID, row.EventType, row.URL, string(row.Status)}); err != nil {
			return fmt.Errorf("tabular: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func newWorkbook(sheet string, header []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("tabular: name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tabular: header style: %w", err)
	}

	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	id, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("tabular: fill style %s: %w", color, err)
	}
	return id, nil
}

// writeRow sets a row's values and, when style is non-zero, styles every
// cell in it.
func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("tabular: %w", err)
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return fmt.Errorf("tabular: write row %d: %w", row, err)
	}
	if style == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return fmt.Errorf("tabular: %w", err)
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("tabular: style row %d: %w", row, err)
	}
	return nil
}

func save(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("tabular: write workbook: %w", err)
	}
	return nil
}
