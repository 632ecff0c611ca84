// Package memdoc is an in-memory implementation of the host interfaces. It
// backs the engine's tests and makes a convenient stand-in wherever a real
// GIMP instance is unavailable.
package memdoc

import (
	"fmt"

	"github.com/layerforge/xcf-export/pkg/host"
)

// Node is an in-memory tree node.
type Node struct {
	name     string
	group    bool
	visible  bool
	children []*Node
}

// Layer creates a leaf node.
func Layer(name string, visible bool) *Node {
	return &Node{name: name, visible: visible}
}

// Group creates a container node with the given children.
func Group(name string, visible bool, children ...*Node) *Node {
	return &Node{name: name, group: true, visible: visible, children: children}
}

func (n *Node) Name() string { return n.name }
func (n *Node) IsGroup() bool { return n.group }

func (n *Node) Visible() (bool, error) { return n.visible, nil }
func (n *Node) SetVisible(visible bool) error { n.visible = visible; return nil }

func (n *Node) Children() ([]host.Node, error) {
	out := make([]host.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

func (n *Node) clone() *Node {
	c := &Node{name: n.name, group: n.group, visible: n.visible}
	for _, child := range n.children {
		c.children = append(c.children, child.clone())
	}
	return c
}

// Document is an in-memory document.
type Document struct {
	root   *Node
	width  int
	height int

	// Discarded is set by Discard.
	Discarded bool

	// Ops records crop/scale/export calls in order, for assertions.
	Ops []string

	// ExportFunc, when non-nil, replaces the default Export behavior
	// (recording the path and succeeding).
	ExportFunc func(path string) error
}

// New creates a document of the given canvas size whose root group contains
// the given top-level nodes.
func New(width, height int, nodes ...*Node) *Document {
	return &Document{
		root:   Group("root", true, nodes...),
		width:  width,
		height: height,
	}
}

func (d *Document) Root() host.Node { return d.root }
func (d *Document) Width() (int, error) { return d.width, nil }
func (d *Document) Height() (int, error) { return d.height, nil }

func (d *Document) Duplicate() (host.Document, error) {
	return &Document{
		root:       d.root.clone(),
		width:      d.width,
		height:     d.height,
		ExportFunc: d.ExportFunc,
	}, nil
}

func (d *Document) Discard() { d.Discarded = true }

func (d *Document) Crop(width, height, offsetX, offsetY int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("crop to %dx%d: dimensions must be positive", width, height)
	}
	d.Ops = append(d.Ops, fmt.Sprintf("crop %dx%d+%d+%d", width, height, offsetX, offsetY))
	d.width, d.height = width, height
	return nil
}

func (d *Document) Scale(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("scale to %dx%d: dimensions must be positive", width, height)
	}
	d.Ops = append(d.Ops, fmt.Sprintf("scale %dx%d", width, height))
	d.width, d.height = width, height
	return nil
}

func (d *Document) Export(path string) error {
	if d.ExportFunc != nil {
		return d.ExportFunc(path)
	}
	d.Ops = append(d.Ops, "export "+path)
	return nil
}

// Host maps project paths to documents.
type Host struct {
	docs map[string]*Document
}

// NewHost creates an empty Host.
func NewHost() *Host {
	return &Host{docs: make(map[string]*Document)}
}

// Add registers a document under a project path.
func (h *Host) Add(path string, doc *Document) {
	h.docs[path] = doc
}

func (h *Host) Load(path string) (host.Document, error) {
	doc, ok := h.docs[path]
	if !ok {
		return nil, fmt.Errorf("no document at %q", path)
	}
	return doc, nil
}
