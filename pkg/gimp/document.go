package gimp

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/layerforge/xcf-export/pkg/host"
)

// Host opens documents on the connected GIMP instance.
type Host struct {
	c *Client
}

// NewHost creates a Host on top of a Script-Fu client.
func NewHost(c *Client) *Host {
	return &Host{c: c}
}

// Load opens a project file and returns its document handle.
func (h *Host) Load(path string) (host.Document, error) {
	id, err := h.c.evalInt(fmt.Sprintf("(gimp-file-load RUN-NONINTERACTIVE %s %s)",
		quote(path), quote(filepath.Base(path))))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return newDocument(h.c, id), nil
}

// Document is an open GIMP image. Node handles are memoized per item ID so
// that repeated tree walks hand out identical pointers; plans key on them.
type Document struct {
	c     *Client
	id    int
	root  *Node
	nodes map[int]*Node
}

func newDocument(c *Client, id int) *Document {
	d := &Document{c: c, id: id, nodes: make(map[int]*Node)}
	d.root = &Node{doc: d, id: -1, group: true}
	return d
}

func (d *Document) Root() host.Node { return d.root }

func (d *Document) Duplicate() (host.Document, error) {
	id, err := d.c.evalInt(fmt.Sprintf("(gimp-image-duplicate %d)", d.id))
	if err != nil {
		return nil, fmt.Errorf("duplicate image %d: %w", d.id, err)
	}
	return newDocument(d.c, id), nil
}

// Discard deletes the image handle inside GIMP. Errors are swallowed: a
// handle that cannot be deleted leaks until the GIMP session ends, which is
// not worth failing an export over.
func (d *Document) Discard() {
	d.c.Eval(fmt.Sprintf("(gimp-image-delete %d)", d.id))
}

func (d *Document) Width() (int, error) {
	return d.c.evalInt(fmt.Sprintf("(gimp-image-width %d)", d.id))
}

func (d *Document) Height() (int, error) {
	return d.c.evalInt(fmt.Sprintf("(gimp-image-height %d)", d.id))
}

func (d *Document) Crop(width, height, offsetX, offsetY int) error {
	_, err := d.c.Eval(fmt.Sprintf("(gimp-image-crop %d %d %d %d %d)",
		d.id, width, height, offsetX, offsetY))
	return err
}

func (d *Document) Scale(width, height int) error {
	_, err := d.c.Eval(fmt.Sprintf("(gimp-image-scale %d %d %d)", d.id, width, height))
	return err
}

// Export saves the image to path, format inferred from the extension. The
// save goes through a flattened throwaway duplicate, so the document this
// is called on is never modified.
func (d *Document) Export(path string) error {
	script := fmt.Sprintf(
		"(let* ((dup (car (gimp-image-duplicate %d)))"+
			" (drawable (car (gimp-image-flatten dup))))"+
			" (gimp-file-save RUN-NONINTERACTIVE dup drawable %s %s)"+
			" (gimp-image-delete dup))",
		d.id, quote(path), quote(filepath.Base(path)))
	if _, err := d.c.Eval(script); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// node returns the memoized handle for a GIMP item, fetching its name and
// kind on first sight.
func (d *Document) node(id int) (*Node, error) {
	if n, ok := d.nodes[id]; ok {
		return n, nil
	}

	name, err := d.c.evalString(fmt.Sprintf("(gimp-item-get-name %d)", id))
	if err != nil {
		return nil, fmt.Errorf("item %d name: %w", id, err)
	}
	group, err := d.c.evalBool(fmt.Sprintf("(gimp-item-is-group %d)", id))
	if err != nil {
		return nil, fmt.Errorf("item %d kind: %w", id, err)
	}

	n := &Node{doc: d, id: id, name: name, group: group}
	d.nodes[id] = n
	return n, nil
}

// Node is a layer or group layer of an open document. The document root is
// a synthetic node with ID -1 whose children are the image's top-level
// layers.
type Node struct {
	doc   *Document
	id    int
	name  string
	group bool
}

func (n *Node) Name() string  { return n.name }
func (n *Node) IsGroup() bool { return n.group }

func (n *Node) Children() ([]host.Node, error) {
	script := fmt.Sprintf("(gimp-item-get-children %d)", n.id)
	if n.id < 0 {
		script = fmt.Sprintf("(gimp-image-get-layers %d)", n.doc.id)
	}

	ids, err := n.doc.c.evalIntVector(script)
	if err != nil {
		return nil, fmt.Errorf("children of item %d: %w", n.id, err)
	}

	children := make([]host.Node, 0, len(ids))
	for _, id := range ids {
		child, err := n.doc.node(id)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func (n *Node) Visible() (bool, error) {
	return n.doc.c.evalBool(fmt.Sprintf("(gimp-item-get-visible %d)", n.id))
}

func (n *Node) SetVisible(visible bool) error {
	flag := "FALSE"
	if visible {
		flag = "TRUE"
	}
	_, err := n.doc.c.Eval(fmt.Sprintf("(gimp-item-set-visible %d %s)", n.id, flag))
	return err
}

// quote renders a Go string as a Script-Fu string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
