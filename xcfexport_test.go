package xcfexport_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	xcfexport "github.com/layerforge/xcf-export"
	"github.com/layerforge/xcf-export/pkg/host/memdoc"
)

func writeSpec(t *testing.T, src string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "xcf-export.yaml")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func TestRunEndToEnd(t *testing.T) {
	dir, specPath := writeSpec(t, `
projects:
  logo.xcf:
    exports:
      out/wordmark.png:
        default: hide
        show: Wordmark
      out/full.png:
        default: show
        scale: {width: 50, height: 50}
`)

	wordmark := memdoc.Layer("Wordmark", false)
	doc := memdoc.New(200, 200, memdoc.Layer("Background", true), wordmark)
	h := memdoc.NewHost()
	h.Add(filepath.Join(dir, "logo.xcf"), doc)

	result, err := xcfexport.Run(context.Background(), xcfexport.Options{
		SpecPath: specPath,
		Host:     h,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	report := result.Report
	if !report.OK() {
		t.Fatalf("report has %d failures: %+v", report.Failed(), report.Entries)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(report.Entries))
	}

	// The baseline document is back to its loaded state.
	if v, _ := wordmark.Visible(); v {
		t.Error("Wordmark must be restored to hidden after the batch")
	}
	if w, _ := doc.Width(); w != 200 {
		t.Errorf("baseline width = %d, want 200 (scale ran on a duplicate)", w)
	}
}

func TestRunSubstringSelection(t *testing.T) {
	dir, specPath := writeSpec(t, `
projects:
  logo.xcf:
    exports:
      out/icon.png: {}
      out/banner.png: {}
`)

	h := memdoc.NewHost()
	h.Add(filepath.Join(dir, "logo.xcf"), memdoc.New(100, 100, memdoc.Layer("A", true)))

	result, err := xcfexport.Run(context.Background(), xcfexport.Options{
		SpecPath:   specPath,
		Host:       h,
		Substrings: []string{"icon"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Report.Entries) != 1 || result.Report.Entries[0].OutputPath != "out/icon.png" {
		t.Errorf("entries = %+v, want out/icon.png only", result.Report.Entries)
	}
}

func TestRunMissingSpec(t *testing.T) {
	_, err := xcfexport.Run(context.Background(), xcfexport.Options{
		SpecPath: filepath.Join(t.TempDir(), "nope.yaml"),
		Host:     memdoc.NewHost(),
	})
	if err == nil {
		t.Fatal("Run() must fail when the specification file is missing")
	}
}

func TestDump(t *testing.T) {
	h := memdoc.NewHost()
	h.Add("logo.xcf", memdoc.New(100, 100,
		memdoc.Layer("Visible", true),
		memdoc.Layer("Hidden", false),
	))

	out, err := xcfexport.Dump(xcfexport.DumpOptions{
		ProjectPath: "logo.xcf",
		Host:        h,
	})
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "default: hide") || !strings.Contains(text, "Visible") {
		t.Errorf("Dump() = %q", text)
	}
	if strings.Contains(text, "Hidden") {
		t.Errorf("Dump() lists a hidden layer: %q", text)
	}
}
