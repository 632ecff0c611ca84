package dump

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/layerforge/xcf-export/pkg/host/memdoc"
)

type dumped struct {
	Default string   `yaml:"default"`
	Show    []string `yaml:"show"`
}

func generate(t *testing.T, doc *memdoc.Document) dumped {
	t.Helper()
	out, err := Generate(doc)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var got dumped
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("Generate() produced invalid YAML: %v\n%s", err, out)
	}
	return got
}

func TestGenerateListsVisibleLeaves(t *testing.T) {
	doc := memdoc.New(100, 100,
		memdoc.Layer("Background", true),
		memdoc.Layer("Sketch", false),
		memdoc.Group("Banner", true,
			memdoc.Layer("Headline", true),
			memdoc.Layer("Alt", false),
		),
	)

	got := generate(t, doc)

	if got.Default != "hide" {
		t.Errorf("default = %q, want hide", got.Default)
	}
	want := []string{"Background", "Headline"}
	if len(got.Show) != len(want) {
		t.Fatalf("show = %v, want %v", got.Show, want)
	}
	for i := range want {
		if got.Show[i] != want[i] {
			t.Fatalf("show = %v, want %v", got.Show, want)
		}
	}
}

func TestGenerateSkipsHiddenGroupSubtrees(t *testing.T) {
	doc := memdoc.New(100, 100,
		memdoc.Group("Drafts", false,
			memdoc.Layer("VisibleInside", true),
		),
	)

	got := generate(t, doc)
	if len(got.Show) != 0 {
		t.Errorf("show = %v, want empty: a hidden group is never composited", got.Show)
	}
}

func TestGenerateDeduplicatesNames(t *testing.T) {
	doc := memdoc.New(100, 100,
		memdoc.Group("Left", true, memdoc.Layer("Shadow", true)),
		memdoc.Group("Right", true, memdoc.Layer("Shadow", true)),
	)

	got := generate(t, doc)
	if len(got.Show) != 1 || got.Show[0] != "Shadow" {
		t.Errorf("show = %v, want a single Shadow entry", got.Show)
	}
}
