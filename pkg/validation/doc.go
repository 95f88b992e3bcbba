// Package validation gates generation on required-field presence. It performs
// no type or format checks: a value is present when it is non-blank after
// trimming whitespace.
package validation
