package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/tabular"
	"github.com/jpp0ca/DV360Trackers-API/internal/app"
	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

var errItemsFailed = errors.New("one or more creatives failed")

type bulkOptions struct {
	file       string
	advertiser string
	dryRun     bool
	report     string
	quiet      bool
}

func newBulkCmd(root *rootOptions) *cobra.Command {
	opts := &bulkOptions{}
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply a tracker sheet to DV360",
		Long: `bulk reads an edited template (or the legacy tracker_type/tracker_url
layout), validates every row, then reconciles and patches each creative.
With --dry-run nothing is sent to DV360 and the plan is printed instead.

Ctrl-C stops scheduling new creatives; calls already in flight complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBulk(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV or XLSX sheet (required)")
	cmd.Flags().StringVarP(&opts.advertiser, "advertiser", "a", "", "advertiser for rows without advertiser_id")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "plan only, do not patch")
	cmd.Flags().StringVar(&opts.report, "report", "", "write the classification report to a .csv or .xlsx file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runBulk(cmd *cobra.Command, root *rootOptions, opts *bulkOptions) error {
	if opts.report != "" {
		if _, err := reportWriter(opts.report); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	progress := func(done, total int, r domain.BatchItemResult) {
		if !opts.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), progressLine(done, total, r))
		}
	}

	e, err := root.build(progress)
	if err != nil {
		return err
	}
	defer e.close()

	items, err := loadItems(opts.file, opts.advertiser, e.cfg.Batch.MaxUploadRows)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report domain.BatchReport
	if opts.dryRun {
		report = e.deps.Service.Plan(ctx, items)
	} else {
		report = e.deps.Service.RunBatch(ctx, items)
	}

	fmt.Fprint(out, renderItems(report))
	fmt.Fprintln(out)
	fmt.Fprint(out, renderRows(report.Rows()))
	fmt.Fprintln(out)
	if warnings := report.Warnings(); len(warnings) > 0 {
		fmt.Fprint(out, renderWarnings(warnings))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, summaryLine(report))

	if opts.report != "" {
		if err := writeReportFile(opts.report, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "report written to %s\n", opts.report)
	}

	if report.Failed > 0 {
		return errItemsFailed
	}
	return nil
}

func loadItems(path, advertiser string, maxRows int) ([]domain.BatchItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := tabular.ReadFile(filepath.Base(path), f, tabular.WithMaxRows(maxRows))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", domain.ErrMalformedInput, path)
	}
	return app.GroupRows(rows, advertiser)
}

type reportFunc func(io.Writer, domain.BatchReport) error

func reportWriter(path string) (reportFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return func(w io.Writer, r domain.BatchReport) error {
			return tabular.WriteReportCSV(w, r.Rows())
		}, nil
	case ".xlsx":
		return func(w io.Writer, r domain.BatchReport) error {
			return tabular.WriteReportXLSX(w, r.Rows(), r.Warnings()...)
		}, nil
	default:
		return nil, fmt.Errorf("report file must end in .csv or .xlsx: %s", path)
	}
}

func writeReportFile(path string, report domain.BatchReport) error {
	write, err := reportWriter(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
