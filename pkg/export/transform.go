package export

import (
	"fmt"
	"math"

	"github.com/layerforge/xcf-export/pkg/host"
	"github.com/layerforge/xcf-export/pkg/schema"
)

// applyGeometry runs the document-level transforms in their fixed order:
// crop first, then scale, so that scale factors and aspect-derived sides
// refer to the post-crop canvas. Both transforms mutate the document and are
// never reverted here; the caller works on a disposable duplicate.
func applyGeometry(doc host.Document, crop *schema.Crop, scale *schema.Scale) error {
	if crop != nil {
		if err := doc.Crop(crop.Width, crop.Height, crop.OffsetX, crop.OffsetY); err != nil {
			return fmt.Errorf("%w: crop to %dx%d+%d+%d: %v",
				ErrTransform, crop.Width, crop.Height, crop.OffsetX, crop.OffsetY, err)
		}
	}

	if scale != nil {
		width, height, err := scaleTarget(doc, scale)
		if err != nil {
			return err
		}
		if err := doc.Scale(width, height); err != nil {
			return fmt.Errorf("%w: scale to %dx%d: %v", ErrTransform, width, height, err)
		}
	}

	return nil
}

// scaleTarget resolves the requested scale against the current canvas: a
// factor multiplies both sides, and a width/height pair with one side
// omitted derives it from the canvas aspect ratio.
func scaleTarget(doc host.Document, scale *schema.Scale) (int, int, error) {
	canvasW, err := doc.Width()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: read canvas width: %v", ErrTransform, err)
	}
	canvasH, err := doc.Height()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: read canvas height: %v", ErrTransform, err)
	}
	if canvasW <= 0 || canvasH <= 0 {
		return 0, 0, fmt.Errorf("%w: canvas is %dx%d", ErrTransform, canvasW, canvasH)
	}

	var width, height int
	switch {
	case scale.Factor != 0:
		width = int(math.Round(scale.Factor * float64(canvasW)))
		height = int(math.Round(scale.Factor * float64(canvasH)))
	case scale.Width == 0:
		height = scale.Height
		width = int(math.Round(float64(height) * float64(canvasW) / float64(canvasH)))
	case scale.Height == 0:
		width = scale.Width
		height = int(math.Round(float64(width) * float64(canvasH) / float64(canvasW)))
	default:
		width, height = scale.Width, scale.Height
	}

	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: scale resolves to %dx%d", ErrTransform, width, height)
	}
	return width, height, nil
}
