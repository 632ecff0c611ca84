// Package host defines the interfaces through which the export engine talks
// to a graphics host (GIMP in production, memdoc in tests). The engine never
// owns document state; it holds Node and Document handles only for the
// duration of a single export and mutates nothing beyond the layer
// visibility flags and the document-level crop/scale it is asked for.
package host

// Host opens documents. Load returns an error for a missing or unreadable
// project file; that error fails every export of the project but never the
// rest of the batch.
type Host interface {
	Load(path string) (Document, error)
}

// Document is an open document handle owned by the host.
//
// Duplicate returns an independent disposable copy whose node tree mirrors
// the original; Discard releases a handle and everything reachable from it.
// Export infers the output format from the path's extension and must not
// modify the document it is called on.
type Document interface {
	Duplicate() (Document, error)
	Discard()
	Root() Node
	Width() (int, error)
	Height() (int, error)
	Crop(width, height, offsetX, offsetY int) error
	Scale(width, height int) error
	Export(path string) error
}

// Node is a single element of a document's composition tree: a layer, or a
// group containing further nodes. Groups carry their own visibility flag,
// independent of their children; whether a hidden group also hides visible
// children at render time is the host's composition semantics, not ours.
//
// Node handles must be comparable (pointer identity) so that plans can key
// on them: layer names are not unique, node handles are.
type Node interface {
	Name() string
	IsGroup() bool
	Visible() (bool, error)
	SetVisible(visible bool) error
	Children() ([]Node, error)
}

// Walk traverses the tree depth-first, parents before children, calling fn
// for every node reachable from root (root itself excluded when it is the
// synthetic document root — callers pass root.Children() order implicitly by
// starting at root). Traversal stops at the first error.
func Walk(root Node, fn func(Node) error) error {
	children, err := root.Children()
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := fn(child); err != nil {
			return err
		}
		if child.IsGroup() {
			if err := Walk(child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FindChildren returns every direct child of scope named name. Ambiguity is
// not an error here: the caller decides whether multiple matches are
// acceptable (plain show names) or fatal (group selectors).
func FindChildren(scope Node, name string) ([]Node, error) {
	children, err := scope.Children()
	if err != nil {
		return nil, err
	}
	var matches []Node
	for _, child := range children {
		if child.Name() == name {
			matches = append(matches, child)
		}
	}
	return matches, nil
}

// FindAll returns every node named name anywhere below root, in depth-first
// order.
func FindAll(root Node, name string) ([]Node, error) {
	var matches []Node
	err := Walk(root, func(n Node) error {
		if n.Name() == name {
			matches = append(matches, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
