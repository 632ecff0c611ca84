package export

import "errors"

var (
	// ErrLoad indicates a project file could not be opened. Every export of
	// that project fails with it; other projects still run.
	ErrLoad = errors.New("document load failed")

	// ErrTransform indicates the host rejected a crop or scale.
	ErrTransform = errors.New("transform failed")

	// ErrRender indicates the output file could not be saved.
	ErrRender = errors.New("render failed")
)
