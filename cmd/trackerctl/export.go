package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/tabular"
)

const defaultTemplateFile = "dv360_trackers_to_edit.xlsx"

type exportOptions struct {
	advertiser string
	ids        []string
	idsFile    string
	out        string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export current trackers into an editable XLSX template",
		Example: `  trackerctl export -a 1234567 --id 111 --id 222
  trackerctl export -a 1234567 --ids-file creatives.csv -o trackers.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids := opts.ids
			if opts.idsFile != "" {
				f, err := os.Open(opts.idsFile)
				if err != nil {
					return err
				}
				fromFile, err := tabular.ReadIDs(f)
				_ = f.Close()
				if err != nil {
					return err
				}
				ids = append(ids, fromFile...)
			}
			if len(ids) == 0 {
				return fmt.Errorf("no creative ids given, use --id or --ids-file")
			}

			e, err := root.build(nil)
			if err != nil {
				return err
			}
			defer e.close()

			rows, err := e.deps.Service.ExportTemplate(context.Background(), opts.advertiser, ids)
			if err != nil {
				return err
			}

			f, err := os.Create(opts.out)
			if err != nil {
				return err
			}
			if err := tabular.WriteTemplateXLSX(f, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows for %d creatives written to %s\n", len(rows), len(ids), opts.out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.advertiser, "advertiser", "a", "", "advertiser id (required)")
	cmd.Flags().StringSliceVar(&opts.ids, "id", nil, "creative id, repeatable")
	cmd.Flags().StringVar(&opts.idsFile, "ids-file", "", "file with one creative id per line")
	cmd.Flags().StringVarP(&opts.out, "out", "o", defaultTemplateFile, "output XLSX path")
	_ = cmd.MarkFlagRequired("advertiser")
	return cmd
}
