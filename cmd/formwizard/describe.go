package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <item>",
		Short: "Show the fields an item asks for",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe,
	}
	cmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	item, err := a.service.Catalog().Get(args[0])
	if errors.Is(err, wizard.ErrUnknownItem) {
		return fmt.Errorf("unknown item %q", args[0])
	}
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" {
		return writeEncoded(cmd.OutOrStdout(), format, item.Summary())
	}
	return describeText(cmd.OutOrStdout(), item)
}

func describeText(w io.Writer, item model.Item) error {
	fmt.Fprintf(w, "%s (%s) [%s]\n", item.Label, item.ID, item.Language)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range item.Fields {
		if field.IsGroup() {
			fmt.Fprintf(tw, "  %s\t%s\tgroup\t\n", field.ID, field.Label)
			for _, sub := range field.Subfields {
				fmt.Fprintf(tw, "    %s\t%s\t%s\t%s\n", sub.ID, sub.Label, requiredText(sub.Required), hintText(sub.Placeholder, sub.Options))
			}
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", field.ID, field.Label, requiredText(field.Required), hintText(field.Placeholder, field.Options))
	}
	return tw.Flush()
}

func requiredText(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}

func hintText(placeholder string, options []model.Option) string {
	if len(options) > 0 {
		values := make([]string, len(options))
		for i, opt := range options {
			values[i] = opt.Value
		}
		return "one of: " + strings.Join(values, ", ")
	}
	if placeholder != "" {
		return "e.g. " + placeholder
	}
	return ""
}
