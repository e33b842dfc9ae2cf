package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAuthCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Display & Video 360",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "url",
		Short: "Print the consent URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := root.build(nil)
			if err != nil {
				return err
			}
			defer e.close()
			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL, grant access, then run `trackerctl auth exchange <code>`:")
			fmt.Fprintln(cmd.OutOrStdout(), e.deps.Auth.AuthCodeURL(uuid.NewString()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "exchange <code>",
		Short: "Store the token for a consent code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.build(nil)
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.deps.Auth.Exchange(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token stored in %s\n", e.cfg.OAuth.TokenFile)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether a usable token exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := root.build(nil)
			if err != nil {
				return err
			}
			defer e.close()
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", authStatus(e.deps.Auth.Authorized()))
			return nil
		},
	})
	return cmd
}
