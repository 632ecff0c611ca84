package export

import (
	"errors"
	"reflect"
	"testing"

	"github.com/layerforge/xcf-export/pkg/host/memdoc"
	"github.com/layerforge/xcf-export/pkg/schema"
)

func TestApplyGeometryCropThenScale(t *testing.T) {
	doc := memdoc.New(200, 200)

	err := applyGeometry(doc,
		&schema.Crop{Width: 100, Height: 100},
		&schema.Scale{Width: 50, Height: 50},
	)
	if err != nil {
		t.Fatalf("applyGeometry() error = %v", err)
	}

	want := []string{"crop 100x100+0+0", "scale 50x50"}
	if !reflect.DeepEqual(doc.Ops, want) {
		t.Errorf("ops = %v, want %v (crop strictly before scale)", doc.Ops, want)
	}
	if w, _ := doc.Width(); w != 50 {
		t.Errorf("final width = %d, want 50", w)
	}
}

func TestApplyGeometryScaleOnly(t *testing.T) {
	doc := memdoc.New(200, 200)

	if err := applyGeometry(doc, nil, &schema.Scale{Width: 50, Height: 50}); err != nil {
		t.Fatalf("applyGeometry() error = %v", err)
	}

	if !reflect.DeepEqual(doc.Ops, []string{"scale 50x50"}) {
		t.Errorf("ops = %v, want a single scale and no crop", doc.Ops)
	}
}

func TestApplyGeometryNoop(t *testing.T) {
	doc := memdoc.New(200, 200)
	if err := applyGeometry(doc, nil, nil); err != nil {
		t.Fatalf("applyGeometry() error = %v", err)
	}
	if len(doc.Ops) != 0 {
		t.Errorf("ops = %v, want none", doc.Ops)
	}
}

func TestScaleTarget(t *testing.T) {
	tests := []struct {
		name      string
		canvasW   int
		canvasH   int
		scale     schema.Scale
		wantW     int
		wantH     int
		wantErrIs error
	}{
		{
			name:    "explicit pair",
			canvasW: 200, canvasH: 200,
			scale: schema.Scale{Width: 50, Height: 50},
			wantW: 50, wantH: 50,
		},
		{
			name:    "factor",
			canvasW: 200, canvasH: 100,
			scale: schema.Scale{Factor: 0.5},
			wantW: 100, wantH: 50,
		},
		{
			name:    "width derived from aspect",
			canvasW: 200, canvasH: 100,
			scale: schema.Scale{Height: 50},
			wantW: 100, wantH: 50,
		},
		{
			name:    "height derived from aspect",
			canvasW: 300, canvasH: 100,
			scale: schema.Scale{Width: 150},
			wantW: 150, wantH: 50,
		},
		{
			name:    "factor rounding",
			canvasW: 3, canvasH: 3,
			scale: schema.Scale{Factor: 0.5},
			wantW: 2, wantH: 2,
		},
		{
			name:    "factor collapsing to zero",
			canvasW: 10, canvasH: 10,
			scale:     schema.Scale{Factor: 0.001},
			wantErrIs: ErrTransform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := memdoc.New(tt.canvasW, tt.canvasH)
			w, h, err := scaleTarget(doc, &tt.scale)
			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("scaleTarget() error = %v, want %v", err, tt.wantErrIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("scaleTarget() error = %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("scaleTarget() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestApplyGeometryHostRejection(t *testing.T) {
	doc := memdoc.New(200, 200)

	// memdoc rejects non-positive dimensions like the real host does.
	err := applyGeometry(doc, &schema.Crop{Width: -5, Height: 100}, nil)
	if !errors.Is(err, ErrTransform) {
		t.Fatalf("applyGeometry() error = %v, want ErrTransform", err)
	}
}
