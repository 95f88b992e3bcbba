package wizard

import "strings"

// Document is the generated output handed back to the host.
type Document struct {
	ItemID   string `json:"itemId" yaml:"itemId"`
	Language string `json:"language" yaml:"language"`
	Content  string `json:"content" yaml:"content"`
}

var languageExtensions = map[string]string{
	"java":       ".java",
	"xml":        ".xml",
	"json":       ".json",
	"yaml":       ".yaml",
	"properties": ".properties",
	"impex":      ".impex",
	"text":       ".txt",
	"plaintext":  ".txt",
}

// Extension maps a language tag to a file extension. Unknown tags fall back
// to ".txt".
func Extension(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return ".txt"
}

// FileName is the default file name for the document: the item id plus the
// extension of its language.
func (d Document) FileName() string {
	return d.ItemID + Extension(d.Language)
}
