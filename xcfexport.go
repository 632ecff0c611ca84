package xcfexport

import (
	"context"
	"fmt"

	"github.com/layerforge/xcf-export/pkg/dump"
	"github.com/layerforge/xcf-export/pkg/export"
	"github.com/layerforge/xcf-export/pkg/gimp"
	"github.com/layerforge/xcf-export/pkg/host"
	"github.com/layerforge/xcf-export/pkg/schema"
)

// DefaultServerAddr is where a locally started Script-Fu server listens.
const DefaultServerAddr = "127.0.0.1:10008"

// Logger receives progress messages. A nil Logger means silent operation.
type Logger = export.Logger

// Options configures an export batch.
type Options struct {
	SpecPath   string    // export specification file, default "xcf-export.yaml"
	ServerAddr string    // Script-Fu server address, default DefaultServerAddr
	Substrings []string  // limit exports to output paths containing any of these
	Host       host.Host // nil = connect to the Script-Fu server at ServerAddr
	Logger     Logger
}

// Result contains the batch outcome.
type Result struct {
	Report *export.Report
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

// Run loads the export specification and renders every selected export,
// returning the per-entry report. Run returns an error only when the batch
// cannot run at all (unreadable specification, no host connection) or was
// canceled; per-entry failures are reported, not returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.SpecPath == "" {
		opts.SpecPath = "xcf-export.yaml"
	}
	if opts.ServerAddr == "" {
		opts.ServerAddr = DefaultServerAddr
	}

	opts.logInfo("Loading export specification from %s...", opts.SpecPath)
	file, err := schema.Load(opts.SpecPath)
	if err != nil {
		return nil, err
	}
	opts.logInfo("Found %d project(s)", len(file.Projects))

	h := opts.Host
	if h == nil {
		opts.logInfo("Connecting to Script-Fu server at %s...", opts.ServerAddr)
		client, err := gimp.Dial(opts.ServerAddr)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		h = gimp.NewHost(client)
	}

	runner := &export.Runner{
		Host:       h,
		Substrings: opts.Substrings,
		Logger:     opts.Logger,
	}

	report, err := runner.Run(ctx, file)
	if err != nil {
		return &Result{Report: report}, fmt.Errorf("batch interrupted: %w", err)
	}
	return &Result{Report: report}, nil
}

// DumpOptions configures a Dump call.
type DumpOptions struct {
	ProjectPath string    // the .xcf file to inspect
	ServerAddr  string    // Script-Fu server address, default DefaultServerAddr
	Host        host.Host // nil = connect to the Script-Fu server at ServerAddr
}

// Dump opens a project file and returns a YAML export specification
// reproducing its current visibility state.
func Dump(opts DumpOptions) ([]byte, error) {
	if opts.ServerAddr == "" {
		opts.ServerAddr = DefaultServerAddr
	}

	h := opts.Host
	if h == nil {
		client, err := gimp.Dial(opts.ServerAddr)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		h = gimp.NewHost(client)
	}

	doc, err := h.Load(opts.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.ProjectPath, err)
	}
	defer doc.Discard()

	return dump.Generate(doc)
}
