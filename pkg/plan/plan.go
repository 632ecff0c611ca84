// Package plan resolves a declarative export specification against a
// document tree into a total visibility assignment, and applies that
// assignment to the tree with exact rollback.
//
// Resolution is pure: it reads the tree shape, performs no mutation and no
// I/O, and is deterministic for a given tree and specification. Application
// mutates only the visibility flags the plan disagrees with, and hands back
// a token that restores the prior flags on every exit path.
package plan

import (
	"fmt"

	"github.com/layerforge/xcf-export/pkg/host"
	"github.com/layerforge/xcf-export/pkg/schema"
)

// Entry is one node's planned visibility.
type Entry struct {
	Node    host.Node
	Visible bool
}

// Plan is a total visibility assignment: exactly one entry per node
// reachable from the root it was resolved against, in depth-first order.
type Plan struct {
	entries []Entry
	index   map[host.Node]int
}

// Entries returns the planned assignments in depth-first tree order.
func (p *Plan) Entries() []Entry { return p.entries }

// Len returns the number of planned nodes.
func (p *Plan) Len() int { return len(p.entries) }

// Visible reports the planned visibility for a node, and whether the node
// is covered by the plan at all.
func (p *Plan) Visible(n host.Node) (visible, ok bool) {
	i, ok := p.index[n]
	if !ok {
		return false, false
	}
	return p.entries[i].Visible, true
}

func (p *Plan) set(n host.Node, visible bool) {
	p.entries[p.index[n]].Visible = visible
}

// Resolve computes the visibility plan for one export. The specification's
// default is stamped across the whole tree first (groups carry their own
// flag and are stamped like layers); show overrides are applied after, so
// show always wins over default regardless of order.
//
// Plain show names are permissive: every node anywhere in the tree bearing
// the name is planned visible, because duplicated layer names across
// independent groups are intentional. A name matching nothing at all is
// ErrLayerNotFound. Group selectors are strict the other way: the selector
// name must match exactly one top-level group, or resolution fails with
// ErrGroupSelector.
func Resolve(root host.Node, export *schema.Export) (*Plan, error) {
	p := &Plan{index: make(map[host.Node]int)}

	def := export.DefaultVisibility() == schema.Show
	err := host.Walk(root, func(n host.Node) error {
		p.index[n] = len(p.entries)
		p.entries = append(p.entries, Entry{Node: n, Visible: def})
		return nil
	})
	if err != nil {
		return nil, err
	}

	show := export.Show
	switch {
	case show == nil:

	case show.Group != nil:
		if err := p.applySelector(root, show.Group); err != nil {
			return nil, err
		}

	default:
		for _, name := range show.Names {
			if err := p.showEverywhere(root, name); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// applySelector resolves a group selector: the named group must be exactly
// one immediate child of the root. The selector's inner default covers the
// group's descendants only; the group's own flag stays governed by the
// outer default.
func (p *Plan) applySelector(root host.Node, sel *schema.GroupSelector) error {
	matches, err := host.FindChildren(root, sel.Group)
	if err != nil {
		return err
	}
	groups := matches[:0]
	for _, m := range matches {
		if m.IsGroup() {
			groups = append(groups, m)
		}
	}
	if len(groups) != 1 {
		return fmt.Errorf("%w: group %q has %d top-level matches", ErrGroupSelector, sel.Group, len(groups))
	}
	group := groups[0]

	inner := sel.DefaultVisibility() == schema.Show
	err = host.Walk(group, func(n host.Node) error {
		p.set(n, inner)
		return nil
	})
	if err != nil {
		return err
	}

	for _, name := range sel.Show {
		found, err := host.FindChildren(group, name)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: %q is not a child of group %q", ErrLayerNotFound, name, sel.Group)
		}
		for _, n := range found {
			p.set(n, true)
		}
	}
	return nil
}

func (p *Plan) showEverywhere(root host.Node, name string) error {
	found, err := host.FindAll(root, name)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("%w: no layer named %q", ErrLayerNotFound, name)
	}
	for _, n := range found {
		p.set(n, true)
	}
	return nil
}
