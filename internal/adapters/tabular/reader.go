// Package tabular reads staged tracker edits from CSV and XLSX files and
// writes the export template and classification reports.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// Column names of the editable sheet.
const (
	ColAdvertiserID = "advertiser_id"
	ColCreativeID   = "creative_id"
	ColCreativeName = "creative_name"
	ColEventType    = "event_type"
	ColExistingURL  = "existing_url"
	ColNewURL       = "new_url"

	// legacy upload format
	colTrackerType = "tracker_type"
	colTrackerURL  = "tracker_url"
)

// TemplateColumns is the header written to, and expected back from, the
// export template.
var TemplateColumns = []string{
	ColAdvertiserID, ColCreativeID, ColCreativeName, ColEventType, ColExistingURL, ColNewURL,
}

var requiredColumns = []string{ColCreativeID, ColEventType, ColExistingURL, ColNewURL}

// aliases maps alternative header spellings onto canonical columns.
var aliases = map[string]string{
	"url":        ColExistingURL,
	"tracker":    ColEventType,
	"creative":   ColCreativeID,
	"creativeid": ColCreativeID,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type options struct {
	maxRows int
}

// Option tunes a read.
type Option func(*options)

// WithMaxRows rejects files with more than n data rows. Zero means no limit.
func WithMaxRows(n int) Option {
	return func(o *options) { o.maxRows = n }
}

// ReadFile dispatches on the file extension of name.
func ReadFile(name string, r io.Reader, opts ...Option) ([]domain.TemplateRow, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ReadCSV(r, opts...)
	case ".xlsx":
		return ReadXLSX(r, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, use .csv or .xlsx", domain.ErrMalformedInput, filepath.Ext(name))
	}
}

// ReadCSV parses an edited template (or a legacy upload) from CSV.
func ReadCSV(r io.Reader, opts ...Option) ([]domain.TemplateRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedInput, perr.Line, perr.Err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return parse(records, opts)
}

// ReadXLSX parses an edited template from an Excel workbook. The "Trackers"
// sheet is used when present, otherwise the first sheet.
func ReadXLSX(r io.Reader, opts ...Option) ([]domain.TemplateRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMalformedInput)
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == TemplateSheet {
			sheet = s
			break
		}
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrMalformedInput, sheet, err)
	}
	return parse(records, opts)
}

// ReadIDs reads a one-column list of creative ids. A non-numeric first
// cell is treated as a header.
func ReadIDs(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}

	first := firstDataLine(records)
	var ids []string
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		if nonEmpty(rec) > 1 {
			return nil, fmt.Errorf("%w: line %d: expected a single column of creative ids", domain.ErrMalformedInput, i+1)
		}
		var id string
		for _, c := range rec {
			if c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")); c != "" {
				id = c
			}
		}
		if i == first && !isDigits(id) {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no creative ids found", domain.ErrMalformedInput)
	}
	return ids, nil
}

func parse(records [][]string, opts []Option) ([]domain.TemplateRow, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	start := firstDataLine(records)
	if start < 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrMalformedInput)
	}

	cols := headerIndex(records[start])
	legacy := isLegacy(cols)
	if !legacy {
		var missing []string
		for _, c := range requiredColumns {
			if _, ok := cols[c]; !ok {
				missing = append(missing, c)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing required columns: %s", domain.ErrMalformedInput, strings.Join(missing, ", "))
		}
	}

	var rows []domain.TemplateRow
	dataRows := 0
	for i := start + 1; i < len(records); i++ {
		rec := records[i]
		if isBlank(rec) {
			continue
		}
		dataRows++
		if o.maxRows > 0 && dataRows > o.maxRows {
			return nil, fmt.Errorf("%w: more than %d rows", domain.ErrMalformedInput, o.maxRows)
		}

		line := i + 1
		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		base := domain.TemplateRow{
			AdvertiserID: get(ColAdvertiserID),
			CreativeID:   get(ColCreativeID),
			CreativeName: get(ColCreativeName),
			Line:         line,
		}
		if err := validate.Struct(base); err != nil {
			return nil, rowError(line, err)
		}

		if legacy {
			base.EventType = get(colTrackerType)
			base.Append = true
			urls := splitURLs(get(colTrackerURL))
			if len(urls) == 0 {
				rows = append(rows, base)
				continue
			}
			for _, u := range urls {
				row := base
				row.NewURL = u
				if err := validate.Struct(row); err != nil {
					return nil, rowError(line, err)
				}
				rows = append(rows, row)
			}
			continue
		}

		base.EventType = get(ColEventType)
		base.ExistingURL = get(ColExistingURL)
		base.NewURL = get(ColNewURL)
		if err := validate.Struct(base); err != nil {
			return nil, rowError(line, err)
		}
		rows = append(rows, base)
	}
	return rows, nil
}

func rowError(line int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: line %d: %v", domain.ErrMalformedInput, line, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := columnName(fe.StructField())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s longer than %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: line %d: %s", domain.ErrMalformedInput, line, strings.Join(msgs, "; "))
}

func columnName(field string) string {
	switch field {
	case "AdvertiserID":
		return ColAdvertiserID
	case "CreativeID":
		return ColCreativeID
	case "EventType":
		return ColEventType
	case "ExistingURL":
		return ColExistingURL
	case "NewURL":
		return ColNewURL
	}
	return field
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if canon, ok := aliases[name]; ok {
			name = canon
		}
		if _, dup := cols[name]; !dup && name != "" {
			cols[name] = i
		}
	}
	return cols
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func isLegacy(cols map[string]int) bool {
	_, hasEvent := cols[ColEventType]
	_, hasType := cols[colTrackerType]
	_, hasURL := cols[colTrackerURL]
	_, hasCreative := cols[ColCreativeID]
	return !hasEvent && hasType && hasURL && hasCreative
}

func splitURLs(s string) []string {
	var urls []string
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func firstDataLine(records [][]string) int {
	for i, rec := range records {
		if !isBlank(rec) {
			return i
		}
	}
	return -1
}

func isBlank(rec []string) bool {
	return nonEmpty(rec) == 0
}

func nonEmpty(rec []string) int {
	n := 0
	for _, c := range rec {
		if strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")) != "" {
			n++
		}
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
