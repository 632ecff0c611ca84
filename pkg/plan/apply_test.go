package plan

import (
	"testing"

	"github.com/layerforge/xcf-export/pkg/host"
	"github.com/layerforge/xcf-export/pkg/host/memdoc"
	"github.com/layerforge/xcf-export/pkg/schema"
)

func mustVisible(t *testing.T, n host.Node) bool {
	t.Helper()
	v, err := n.Visible()
	if err != nil {
		t.Fatalf("Visible() error = %v", err)
	}
	return v
}

func TestApplySetsOnlyDiffering(t *testing.T) {
	already := memdoc.Layer("Already", true)
	hidden := memdoc.Layer("Hidden", false)
	doc := memdoc.New(200, 200, already, hidden)

	p, err := Resolve(doc.Root(), &schema.Export{
		Default: vis(schema.Hide),
		Show:    names("Already", "Hidden"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	token, err := p.Apply()
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !mustVisible(t, already) || !mustVisible(t, hidden) {
		t.Error("both layers should be visible after apply")
	}
	// Already was visible and planned visible, so only Hidden was touched.
	if token.Touched() != 1 {
		t.Errorf("Apply() touched %d nodes, want 1", token.Touched())
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	layerA := memdoc.Layer("A", false)
	layerB := memdoc.Layer("B", true)
	doc := memdoc.New(200, 200, layerA, layerB)

	p, err := Resolve(doc.Root(), &schema.Export{
		Default: vis(schema.Hide),
		Show:    names("A"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if _, err := p.Apply(); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	first := []bool{mustVisible(t, layerA), mustVisible(t, layerB)}

	token, err := p.Apply()
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	second := []bool{mustVisible(t, layerA), mustVisible(t, layerB)}

	if first[0] != second[0] || first[1] != second[1] {
		t.Error("applying the same plan twice must not change the final state")
	}
	if token.Touched() != 0 {
		t.Errorf("second Apply() touched %d nodes, want 0", token.Touched())
	}
}

func TestRestoreIsExact(t *testing.T) {
	layerA := memdoc.Layer("A", false)
	layerB := memdoc.Layer("B", true)
	group := memdoc.Group("G", true, layerB)
	doc := memdoc.New(200, 200, layerA, group)

	p, err := Resolve(doc.Root(), &schema.Export{
		Default: vis(schema.Hide),
		Show:    names("A"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	token, err := p.Apply()
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if err := token.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if mustVisible(t, layerA) {
		t.Error("A must be restored to hidden")
	}
	if !mustVisible(t, layerB) {
		t.Error("B must be restored to visible")
	}
	if !mustVisible(t, group) {
		t.Error("G must be restored to visible")
	}
}

func TestRestoreSurvivesInterveningMutation(t *testing.T) {
	layer := memdoc.Layer("A", false)
	doc := memdoc.New(200, 200, layer)

	p, err := Resolve(doc.Root(), &schema.Export{
		Default: vis(schema.Hide),
		Show:    names("A"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	token, err := p.Apply()
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// Something else flips the flag between apply and restore. Restore
	// still puts back the value from immediately before Apply.
	if err := layer.SetVisible(false); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}
	if err := layer.SetVisible(true); err != nil {
		t.Fatalf("SetVisible() error = %v", err)
	}

	if err := token.Restore(); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if mustVisible(t, layer) {
		t.Error("restore must reinstate the pre-apply value, not the planned one")
	}
}
