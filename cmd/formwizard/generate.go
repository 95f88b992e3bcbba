package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// newPromptDriver is swapped in tests.
var newPromptDriver = tui.NewSurveyDriver

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [item]",
		Short: "Fill an item's form and print the generated code",
		Long: `Without --values the form is filled interactively. With --values the
record is read from a JSON or YAML file ("-" for stdin) holding itemId and
record keys.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().String("values", "", "JSON or YAML file with the record to render (\"-\" reads stdin)")
	cmd.Flags().StringP("output", "o", "", "write the document to this file instead of stdout")
	cmd.Flags().String("output-dir", "", "write the document to <item>.<ext> in this directory")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	var itemID string
	if len(args) > 0 {
		itemID = args[0]
	}

	valuesPath, _ := cmd.Flags().GetString("values")
	var doc wizard.Document
	if valuesPath != "" {
		doc, err = generateFromValues(cmd, a, valuesPath, itemID)
	} else {
		doc, err = generateInteractive(cmd, a, itemID)
	}
	if err != nil {
		return err
	}

	return writeDocument(cmd, a, doc)
}

func generateFromValues(cmd *cobra.Command, a *app, path, itemID string) (wizard.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return wizard.Document{}, fmt.Errorf("open values: %w", err)
		}
		defer f.Close()
		r = f
	}

	req, err := a.service.DecodeRequest(r, itemID)
	if err != nil {
		return wizard.Document{}, userError(err, itemID)
	}
	doc, err := a.service.Generate(cmd.Context(), req)
	if err != nil {
		return wizard.Document{}, userError(err, req.ItemID)
	}
	return doc, nil
}

func generateInteractive(cmd *cobra.Command, a *app, itemID string) (wizard.Document, error) {
	w, err := tui.New(a.service, tui.WithPromptDriver(newPromptDriver()), tui.WithLogger(a.logger))
	if err != nil {
		return wizard.Document{}, err
	}
	doc, err := w.Run(cmd.Context(), itemID)
	if err != nil {
		return wizard.Document{}, userError(err, itemID)
	}
	return doc, nil
}

// userError turns library errors into the messages printed by the CLI.
func userError(err error, itemID string) error {
	var recErr *wizard.RecordError
	switch {
	case errors.Is(err, wizard.ErrUnknownItem):
		if itemID == "" {
			return err
		}
		return fmt.Errorf("unknown item %q", itemID)
	case errors.As(err, &recErr):
		lines := make([]string, 0, len(recErr.Result.Issues)+1)
		lines = append(lines, fmt.Sprintf("record for %s is incomplete:", recErr.ItemID))
		for _, issue := range recErr.Result.Issues {
			lines = append(lines, fmt.Sprintf("  %s: %s", issue.Path, issue.Message))
		}
		return errors.New(strings.Join(lines, "\n"))
	case errors.Is(err, tui.ErrAborted), errors.Is(err, tui.ErrCancelled):
		return errors.New("generation cancelled")
	default:
		return err
	}
}

func writeDocument(cmd *cobra.Command, a *app, doc wizard.Document) error {
	output, _ := cmd.Flags().GetString("output")
	outputDir := a.cfg.Output.Dir

	path := output
	if path == "" && outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(outputDir, doc.FileName())
	}

	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), doc.Content)
		return err
	}
	if err := os.WriteFile(path, []byte(doc.Content), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	a.logger.Info("document written", "path", path)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s written to %s\n", doc.ItemID, path)
	return nil
}
