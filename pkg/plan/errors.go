package plan

import "errors"

var (
	// ErrGroupSelector indicates a group selector's name matched zero or
	// more than one top-level group. Ambiguity is never silently resolved.
	ErrGroupSelector = errors.New("group selector is ambiguous or unmatched")

	// ErrLayerNotFound indicates a show name matched no node at all.
	ErrLayerNotFound = errors.New("layer not found")
)
