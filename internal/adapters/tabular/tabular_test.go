package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

func TestReadCSV_Template(t *testing.T) {
	input := "\ufeffCreative_ID,Creative Name,Event_Type,Existing_URL,New_URL\n" +
		"111,Creative One,Impression,http://a.com,http://a2.com\n" +
		",,,,\n" +
		"111,Creative One, Start ,http://b.com,delete\n" +
		"222,Creative Two,Click tracking,,http://c.com\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.TemplateRow{
		CreativeID: "111", CreativeName: "Creative One", EventType: "Impression",
		ExistingURL: "http://a.com", NewURL: "http://a2.com", Line: 2,
	}, rows[0])
	assert.Equal(t, "Start", rows[1].EventType)
	assert.Equal(t, 4, rows[1].Line)
	assert.False(t, rows[1].Append)
	assert.True(t, rows[1].Change().IsDelete())
	assert.Equal(t, "", rows[2].ExistingURL)
}

func TestReadCSV_Legacy(t *testing.T) {
	input := "advertiser_id,creative_id,tracker_type,tracker_url\n" +
		`9,111,Impression,"http://a.com, http://b.com"` + "\n" +
		"9,222,Start,\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, domain.TemplateRow{AdvertiserID: "9", CreativeID: "111", EventType: "Impression", NewURL: "http://a.com", Line: 2, Append: true}, rows[0])
	assert.Equal(t, "http://b.com", rows[1].NewURL)
	assert.Equal(t, 2, rows[1].Line)
	assert.Equal(t, domain.TemplateRow{AdvertiserID: "9", CreativeID: "222", EventType: "Start", Line: 3, Append: true}, rows[2])

	change := rows[1].Change()
	assert.True(t, change.Append)
	assert.Equal(t, 2, change.Line)
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing columns",
			input: "creative_id,event_type\n111,Impression\n",
			want:  "missing required columns: existing_url, new_url",
		},
		{
			name:  "row without creative id",
			input: "creative_id,event_type,existing_url,new_url\n111,Impression,,http://a.com\n,Start,,http://b.com\n",
			want:  "line 3: creative_id is required",
		},
		{
			name:  "empty file",
			input: "\n\n",
			want:  "file is empty",
		},
		{
			name:  "bad quoting",
			input: "creative_id,event_type,existing_url,new_url\n111,\"Impression,,\n",
			want:  "line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedInput))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadCSV_MaxRows(t *testing.T) {
	input := "creative_id,event_type,existing_url,new_url\n1,a,,\n2,b,,\n3,c,,\n"

	_, err := ReadCSV(strings.NewReader(input), WithMaxRows(2))
	require.ErrorIs(t, err, domain.ErrMalformedInput)

	rows, err := ReadCSV(strings.NewReader(input), WithMaxRows(3))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestReadFile_Extension(t *testing.T) {
	_, err := ReadFile("edits.json", strings.NewReader("{}"))
	require.ErrorIs(t, err, domain.ErrMalformedInput)

	rows, err := ReadFile("EDITS.CSV", strings.NewReader("creative_id,event_type,existing_url,new_url\n1,Impression,,http://a.com\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadIDs(t *testing.T) {
	ids, err := ReadIDs(strings.NewReader("creative_id\n111\n\n222\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222"}, ids)

	ids, err = ReadIDs(strings.NewReader("333\n444\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"333", "444"}, ids)

	_, err = ReadIDs(strings.NewReader("111,222\n"))
	require.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = ReadIDs(strings.NewReader("creative_id\n"))
	require.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestTemplateXLSX_RoundTrip(t *testing.T) {
	rows := []domain.TemplateRow{
		{AdvertiserID: "9", CreativeID: "111", CreativeName: "Creative One", EventType: "Impression", ExistingURL: "http://a.com", Line: 2},
		{AdvertiserID: "9", CreativeID: "111", CreativeName: "Creative One", EventType: "Start", ExistingURL: "http://b.com", Line: 3},
		{AdvertiserID: "9", CreativeID: "222", CreativeName: "Creative Two", EventType: "Impression", ExistingURL: "http://c.com", Line: 4},
		{AdvertiserID: "9", CreativeID: "333", CreativeName: "Creative Three", Line: 5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTemplateXLSX(&buf, rows))

	got, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{TemplateSheet}, f.GetSheetList())

	style := func(cell string) int {
		id, err := f.GetCellStyle(TemplateSheet, cell)
		require.NoError(t, err)
		return id
	}
	assert.Equal(t, style("A2"), style("F3"), "same creative shares a fill")
	assert.NotEqual(t, style("A3"), style("A4"), "next creative alternates")
	assert.Equal(t, style("A2"), style("A5"), "third creative returns to the first fill")
}

func TestReportXLSX(t *testing.T) {
	rows := []domain.ReportRow{
		{CreativeID: "111", EventType: "Impression", URL: "http://a.com", Status: domain.StatusUnchanged},
		{CreativeID: "111", EventType: "Start", URL: "http://b.com", Status: domain.StatusAdded},
		{CreativeID: "111", EventType: "Complete", URL: "http://c.com", Status: domain.StatusDeleted},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReportXLSX(&buf, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	values, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, ReportColumns, values[0])
	assert.Equal(t, []string{"111", "Start", "http://b.com", "ADDED"}, values[2])

	unchanged, err := f.GetCellStyle(ReportSheet, "A2")
	require.NoError(t, err)
	added, err := f.GetCellStyle(ReportSheet, "A3")
	require.NoError(t, err)
	deleted, err := f.GetCellStyle(ReportSheet, "A4")
	require.NoError(t, err)
	assert.Zero(t, unchanged)
	assert.NotZero(t, added)
	assert.NotEqual(t, added, deleted)
}

func TestReportXLSX_WarningSheet(t *testing.T) {
	rows := []domain.ReportRow{{CreativeID: "111", EventType: "Impression", URL: "http://a.com", Status: domain.StatusAdded}}

	var plain bytes.Buffer
	require.NoError(t, WriteReportXLSX(&plain, rows))
	f, err := excelize.OpenReader(bytes.NewReader(plain.Bytes()))
	require.NoError(t, err)
	assert.NotContains(t, f.GetSheetList(), WarningSheet)
	f.Close()

	var buf bytes.Buffer
	require.NoError(t, WriteReportXLSX(&buf, rows,
		domain.ItemWarning{CreativeID: "111", Warning: domain.Warning{Row: 2, Line: 4, Code: "duplicate_row", Message: "row 3 repeats row 1"}},
		domain.ItemWarning{CreativeID: "111", Warning: domain.Warning{Row: -1, Code: "variant_ambiguous", Message: "assumed standard"}},
	))
	f, err = excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	values, err := f.GetRows(WarningSheet)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, WarningColumns, values[0])
	assert.Equal(t, []string{"111", "4", "duplicate_row", "row 3 repeats row 1"}, values[1])
	assert.Equal(t, []string{"111", "", "variant_ambiguous", "assumed standard"}, values[2])
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, []domain.ReportRow{
		{CreativeID: "111", EventType: "Impression", URL: "http://a.com?x=1,2", Status: domain.StatusUpdated},
	}))

	assert.Equal(t, "creative_id,event_type,url,status\n111,Impression,\"http://a.com?x=1,2\",UPDATED\n", buf.String())
}
