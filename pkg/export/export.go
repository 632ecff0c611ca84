// Package export sequences the independent export targets of each project
// document: resolve the visibility plan, apply it, run geometry transforms,
// render, and put the document back the way it was — then move on to the
// next target from the same untouched baseline.
//
// Baseline protection picks the cheaper of two strategies per target.
// Targets with a crop or scale work on a disposable duplicate, because
// geometry changes cannot be reverted flag-by-flag. Targets with neither
// apply the plan to the loaded document directly and revert through the
// plan's restore token, because visibility flags are exactly reversible.
//
// A batch never aborts on a per-target failure: each failed resolve,
// transform, or render is recorded against its output path and the
// remaining targets and projects still run. Only cancellation stops a
// batch, and only between targets, never inside one.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/layerforge/xcf-export/pkg/host"
	"github.com/layerforge/xcf-export/pkg/plan"
	"github.com/layerforge/xcf-export/pkg/schema"
)

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Runner executes the export batch described by a specification file
// against a graphics host. It owns each loaded document exclusively for the
// duration of that project's targets.
type Runner struct {
	Host host.Host

	// Substrings, when non-empty, limits the batch to targets whose output
	// path contains at least one of them.
	Substrings []string

	Logger Logger
}

func (r *Runner) infof(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Infof(format, args...)
	}
}

func (r *Runner) errorf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Errorf(format, args...)
	}
}

// Run processes every project of the specification file in lexical order
// and returns the per-target report. The returned error is non-nil only
// when the context is canceled; target failures live in the report.
func (r *Runner) Run(ctx context.Context, file *schema.File) (*Report, error) {
	report := &Report{}

	for _, projectPath := range file.SortedProjects() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		project := file.Projects[projectPath]
		outputs := r.selectedOutputs(project)
		if len(outputs) == 0 {
			continue
		}

		if err := r.runProject(ctx, file.Root, projectPath, project, outputs, report); err != nil {
			return report, err
		}
	}

	return report, nil
}

// selectedOutputs returns the project's output paths that pass the
// substring filter, in lexical order.
func (r *Runner) selectedOutputs(project *schema.Project) []string {
	outputs := project.SortedExports()
	if len(r.Substrings) == 0 {
		return outputs
	}
	selected := outputs[:0]
	for _, out := range outputs {
		for _, sub := range r.Substrings {
			if strings.Contains(out, sub) {
				selected = append(selected, out)
				break
			}
		}
	}
	return selected
}

func (r *Runner) runProject(ctx context.Context, root, projectPath string, project *schema.Project, outputs []string, report *Report) error {
	r.infof("Loading %s", projectPath)
	doc, err := r.Host.Load(filepath.Join(root, projectPath))
	if err != nil {
		loadErr := fmt.Errorf("%w: %s: %v", ErrLoad, projectPath, err)
		r.errorf("%v", loadErr)
		for _, out := range outputs {
			report.add(projectPath, out, loadErr)
		}
		return nil
	}
	defer doc.Discard()

	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.infof("Exporting %s", out)
		entryErr := r.runExport(doc, filepath.Join(root, out), project.Exports[out])
		if entryErr != nil {
			r.errorf("%s: %v", out, entryErr)
		}
		report.add(projectPath, out, entryErr)
	}

	return nil
}

// runExport renders one target from the shared baseline document and leaves
// that baseline untouched on every exit path.
func (r *Runner) runExport(doc host.Document, outputPath string, spec *schema.Export) (err error) {
	work := doc
	needsGeometry := spec.Crop != nil || spec.Scale != nil
	if needsGeometry {
		dup, err := doc.Duplicate()
		if err != nil {
			return fmt.Errorf("duplicate document: %w", err)
		}
		defer dup.Discard()
		work = dup
	}

	p, err := plan.Resolve(work.Root(), spec)
	if err != nil {
		return err
	}

	token, applyErr := p.Apply()
	if !needsGeometry {
		// The baseline is mutated in place; the token is its way back.
		defer func() {
			if restoreErr := token.Restore(); restoreErr != nil && err == nil {
				err = restoreErr
			}
		}()
	}
	if applyErr != nil {
		return applyErr
	}

	if err := applyGeometry(work, spec.Crop, spec.Scale); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := work.Export(outputPath); err != nil {
		// Never leave a partial output behind for a failed target.
		os.Remove(outputPath)
		return fmt.Errorf("%w: %s: %v", ErrRender, outputPath, err)
	}

	return nil
}
