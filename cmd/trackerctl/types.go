package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
	"github.com/jpp0ca/DV360Trackers-API/internal/trackertype"
)

func newTypesCmd(root *rootOptions) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the event labels accepted in a tracker sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			reg := trackertype.Default()
			if cfg.Registry.Path != "" {
				if reg, err = trackertype.LoadFile(cfg.Registry.Path); err != nil {
					return err
				}
			}

			variants := reg.Variants()
			if variant != "" {
				v, ok := domain.ParseVariant(variant)
				if !ok {
					return fmt.Errorf("unknown variant %q", variant)
				}
				variants = []domain.Variant{v}
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTypes(reg, variants))
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "standard, vast_video or hosted_video")
	return cmd
}
