// Package dump reverse-engineers an export specification from a document's
// current visibility state: the emitted YAML reproduces what is visible
// right now when exported with it.
package dump

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/layerforge/xcf-export/pkg/host"
	"github.com/layerforge/xcf-export/pkg/schema"
)

// Generate emits a `default: hide` spec whose show list names the currently
// visible leaf layers. Subtrees under a hidden group are skipped entirely,
// since the host never composites them. Names are listed once even when
// several visible layers share one; show matching is permissive, so a
// single entry reaches them all.
func Generate(doc host.Document) ([]byte, error) {
	var names []string
	seen := make(map[string]bool)

	var collect func(n host.Node) error
	collect = func(n host.Node) error {
		visible, err := n.Visible()
		if err != nil {
			return err
		}
		if !visible {
			return nil
		}
		if !n.IsGroup() {
			if !seen[n.Name()] {
				seen[n.Name()] = true
				names = append(names, n.Name())
			}
			return nil
		}
		children, err := n.Children()
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := collect(child); err != nil {
				return err
			}
		}
		return nil
	}

	root := doc.Root()
	children, err := root.Children()
	if err != nil {
		return nil, fmt.Errorf("read document tree: %w", err)
	}
	for _, child := range children {
		if err := collect(child); err != nil {
			return nil, fmt.Errorf("read document tree: %w", err)
		}
	}

	out := struct {
		Default schema.Visibility `yaml:"default"`
		Show    []string          `yaml:"show,omitempty"`
	}{
		Default: schema.Hide,
		Show:    names,
	}
	return yaml.Marshal(out)
}
