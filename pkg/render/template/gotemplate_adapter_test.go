package template_test

import (
	"embed"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	assertRendered(t, "Hello Ada!", result, written)
}

func TestGoTemplateEngine_CaseFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("case", map[string]any{"name": "invoiceEntry"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "InvoiceEntry/invoiceEntry" {
		t.Fatalf("unexpected case filter output %q", result)
	}

	result, err = engine.RenderTemplate("case", nil)
	if err != nil {
		t.Fatalf("render with missing value: %v", err)
	}
	if result != "/" {
		t.Fatalf("expected empty values for missing name, got %q", result)
	}
}

func TestGoTemplateEngine_AutoescapeOff(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("verbatim", map[string]any{
		"url":   "/items?a=1&b=2",
		"label": "<Invoice>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<a href="/items?a=1&b=2"><Invoice></a>`
	if result != want {
		t.Fatalf("expected verbatim output\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_NoAutoescapeByDefault(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("plain", map[string]any{
		"label": "List<String>",
		"url":   "a&b",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "List<String> & a&b"; result != want {
		t.Fatalf("expected verbatim output\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_BaseDirShadowsFSAndIncludesFallBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tpl"), []byte("Hi {{ name }}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// wrap.tpl only exists in the FS layer; the hello.tpl it includes is
	// taken from the base dir.
	result, err := engine.RenderTemplate("wrap", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "[Hi Ada]" {
		t.Fatalf("unexpected layered output %q", result)
	}

	result, err = engine.RenderTemplate("case", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if result != "Ada/ada" {
		t.Fatalf("unexpected fallback output %q", result)
	}
}

func TestGoTemplateEngine_RejectsUnsupportedData(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("hello", struct{ Name string }{"Ada"}); err == nil {
		t.Fatalf("expected error for struct data")
	}
}

func TestGoTemplateEngine_CompileMissingTemplate(t *testing.T) {
	engine := newEngine(t)

	if err := engine.Compile("hello"); err != nil {
		t.Fatalf("compile existing template: %v", err)
	}
	if err := engine.Compile("missing"); err == nil {
		t.Fatalf("expected missing template to fail compilation")
	}
}

func TestGoTemplateEngine_RequiresLoader(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
	if _, err := gotemplate.New(gotemplate.WithBaseDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for missing base dir")
	}
}

func assertRendered(t *testing.T, want, result, written string) {
	t.Helper()
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
