package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every formwizard command.
type Config struct {
	Catalog struct {
		Dir string
	}
	Output struct {
		Dir string
	}
	Log struct {
		Level  string
		Format string
	}
	// File is the config file that was read, empty when none was found.
	File string
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"catalog-dir": "catalog.dir",
	"output-dir":  "output.dir",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

// Load reads config from environment (FORMWIZARD_ prefix), an optional
// formwizard.yaml in the working directory or ~/.config/formwizard, and the
// flags in fs that are explicitly set. file, when non-empty, names the config
// file to read instead of searching for one.
func Load(fs *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FORMWIZARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("catalog.dir", "")
	v.SetDefault("output.dir", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("formwizard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "formwizard"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{File: v.ConfigFileUsed()}
	cfg.Catalog.Dir = v.GetString("catalog.dir")
	cfg.Output.Dir = v.GetString("output.dir")
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(v.GetString("log.level")))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(v.GetString("log.format")))

	if _, ok := logLevelMapping[cfg.Log.Level]; !ok {
		return nil, fmt.Errorf("config: invalid FORMWIZARD_LOG_LEVEL %q (debug, info, warn, error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("config: invalid FORMWIZARD_LOG_FORMAT %q (text, json)", cfg.Log.Format)
	}

	return cfg, nil
}
