// Package template defines the engine-agnostic contract render functions use.
// The default implementation lives in the gotemplate subpackage and wraps a
// pongo2 template set.
package template
