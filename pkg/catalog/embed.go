package catalog

import (
	"embed"
	"io/fs"
)

//go:embed items/*.yaml templates/*.tpl
var embeddedCatalog embed.FS

// EmbeddedFS returns the bundled catalog: item definitions under items/ and
// their templates under templates/. Callers may pass it to LoadFS.
func EmbeddedFS() fs.FS {
	return embeddedCatalog
}

// EmbeddedTemplates returns the templates/ subtree of the bundled catalog.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedCatalog, TemplatesDir)
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
