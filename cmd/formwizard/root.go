package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/catalog"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "formwizard",
		Short:         "Generate CMS code snippets from interactive forms",
		Long:          "formwizard asks for the values of a code template and prints the generated Java or XML.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"config file (default: ./formwizard.yaml or ~/.config/formwizard/formwizard.yaml)")
	rootCmd.PersistentFlags().String("catalog-dir", "",
		"directory with extra items/ and templates/ layered over the bundled catalog")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newGenerateCmd())
	return rootCmd
}

// app bundles what every command needs once config is resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *wizard.Service
}

func loadApp(cmd *cobra.Command) (*app, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Flags(), file)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	logger.Debug("config loaded", "file", cfg.File, "catalog", cfg.Catalog.Dir)

	cat, err := catalog.Overlay(cfg.Catalog.Dir, catalog.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		service: wizard.NewService(cat, wizard.WithLogger(logger)),
	}, nil
}

// writeEncoded prints v as JSON or YAML.
func writeEncoded(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (text, json, yaml)", format)
	}
}
