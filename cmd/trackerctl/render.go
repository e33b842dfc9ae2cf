package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

type labelSource interface {
	Labels(variant domain.Variant) []string
	ToAPIType(label string, variant domain.Variant) (domain.TypeID, error)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func renderItems(report domain.BatchReport) string {
	t := newTable()
	t.SetTitle("Run " + report.RunID)
	t.AppendHeader(table.Row{"Advertiser", "Creative", "Variant", "Status", "Detail"})
	for _, it := range report.Items {
		t.AppendRow(table.Row{it.AdvertiserID, it.CreativeID, it.Variant, itemStatus(it.Status), it.Detail})
	}
	return t.Render() + "\n"
}

func renderRows(rows []domain.ReportRow) string {
	if len(rows) == 0 {
		return "No tracker changes.\n"
	}
	t := newTable()
	t.AppendHeader(table.Row{"Creative", "Event", "URL", "Status"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.CreativeID, r.EventType, r.URL, changeStatus(r.Status)})
	}
	return t.Render() + "\n"
}

func renderWarnings(warnings []domain.ItemWarning) string {
	if len(warnings) == 0 {
		return "No warnings.\n"
	}
	t := newTable()
	t.SetTitle("Warnings")
	t.AppendHeader(table.Row{"Creative", "Line", "Code", "Message"})
	for _, w := range warnings {
		line := "-"
		if w.Line > 0 {
			line = strconv.Itoa(w.Line)
		}
		t.AppendRow(table.Row{w.CreativeID, line, text.FgYellow.Sprint(w.Code), w.Message})
	}
	return t.Render() + "\n"
}

func renderTypes(types labelSource, variants []domain.Variant) string {
	t := newTable()
	t.AppendHeader(table.Row{"Variant", "Event", "DV360 type"})
	for _, v := range variants {
		for _, label := range types.Labels(v) {
			id, err := types.ToAPIType(label, v)
			if err != nil {
				continue
			}
			t.AppendRow(table.Row{v, label, id})
		}
		t.AppendSeparator()
	}
	return t.Render() + "\n"
}

func summaryLine(report domain.BatchReport) string {
	mode := "committed"
	if report.DryRun {
		mode = "planned"
	}
	return fmt.Sprintf("%d creatives %s: %d succeeded, %d failed (%s)",
		len(report.Items), mode, report.Succeeded, report.Failed,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

func progressLine(done, total int, r domain.BatchItemResult) string {
	return fmt.Sprintf("[%d/%d] %s %s: %s", done, total, r.CreativeID, r.Status, r.Detail)
}

func itemStatus(s domain.ItemStatus) string {
	if s == domain.ItemSuccess {
		return text.FgGreen.Sprint(string(s))
	}
	return text.FgRed.Sprint(string(s))
}

func changeStatus(s domain.ChangeStatus) string {
	switch s {
	case domain.StatusAdded:
		return text.FgGreen.Sprint(string(s))
	case domain.StatusUpdated:
		return text.FgBlue.Sprint(string(s))
	case domain.StatusDeleted:
		return text.FgRed.Sprint(string(s))
	default:
		return text.FgHiBlack.Sprint(string(s))
	}
}

func authStatus(ok bool) string {
	if ok {
		return text.FgGreen.Sprint("Authorized")
	}
	return text.FgYellow.Sprint("Not authorized")
}
