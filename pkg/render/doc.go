// Package render turns a completed record into output text. Items carry a
// RenderFunc, usually built with TemplateFunc over the pongo2 engine in
// render/template/gotemplate. Templates see two extra filters,
// capitalizefirst and lowercasefirst, backed by CapitalizeFirst and
// LowercaseFirst. Values are interpolated verbatim: generated code is meant to
// be reviewed by a person, so nothing is escaped for the target format.
package render
