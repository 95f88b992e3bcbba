// Package config loads formwizard settings with viper and builds the slog
// logger they describe.
package config
