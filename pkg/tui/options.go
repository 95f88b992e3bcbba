package tui

import "log/slog"

// Theme captures optional prefixes the wizard applies to messages it prints
// through the driver. Keep minimal to avoid coupling flow logic to ANSI
// specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Wizard.
type Option func(*Wizard)

// WithPromptDriver overrides the prompt driver used by the wizard.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithLogger routes wizard diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(w *Wizard) {
		w.theme = theme
	}
}
