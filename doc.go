// Package xcfexport renders raster exports from multi-layer GIMP documents
// driven by a declarative YAML specification: which layers are visible, at
// what size, in what crop. Each export is applied to the document, rendered,
// and fully reverted, so any number of exports can be cut from the same
// document in one run without it ever drifting from its on-disk state.
//
// The CLI lives in cmd/xcf-export; this root package exposes the same
// pipeline as a Go API so that callers can embed batch exporting in their
// own tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named xcfexport:
//
//	import "github.com/layerforge/xcf-export" // package xcfexport
//
// # Quick start
//
// Start a Script-Fu server in a running GIMP instance (Filters > Script-Fu >
// Start Server), then:
//
//	result, err := xcfexport.Run(context.Background(), xcfexport.Options{
//	    SpecPath: "xcf-export.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range result.Report.Entries {
//	    if entry.Failed() {
//	        log.Printf("%s: %v", entry.OutputPath, entry.Err)
//	    }
//	}
//
// # Specification
//
// The specification file maps project documents to exports. Every export
// stamps a baseline visibility over the whole layer tree and then turns its
// show selection on; show always wins over the baseline:
//
//	projects:
//	  art/logo.xcf:
//	    exports:
//	      out/logo.png:
//	        default: hide
//	        show: [Background, Wordmark]
//	      out/banner.png:
//	        default: hide
//	        show: {group: Banner, default: show, show: [Headline]}
//	        crop: {width: 1200, height: 400, offset_x: 0, offset_y: 80}
//	        scale: {width: 600}
//
// A plain show name is permissive: every layer bearing it anywhere in the
// tree becomes visible, so names duplicated across independent groups work
// as intended. A group selector is strict: its name must match exactly one
// top-level group. Crops run before scales, so scale targets refer to the
// cropped canvas; a scale with one side omitted keeps the aspect ratio.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
// # Failure handling
//
// A failing export never aborts the batch: its error is recorded in the
// report against its output path and the remaining exports and projects
// still run. A failed export leaves no partial output file behind.
package xcfexport
