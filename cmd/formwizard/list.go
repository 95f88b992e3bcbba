package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the items that can be generated",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	items, err := a.service.ListItems(cmd.Context())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" {
		return writeEncoded(cmd.OutOrStdout(), format, items)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tLANGUAGE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.ID, item.Label, item.Language)
	}
	return tw.Flush()
}
