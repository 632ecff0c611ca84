// Package schema loads the declarative export-specification file: a YAML
// document mapping project files (.xcf) to the exports rendered from them.
//
// A minimal specification:
//
//	projects:
//	  art/logo.xcf:
//	    exports:
//	      out/logo.png:
//	        default: hide
//	        show: [Background, Wordmark]
//	        crop: {width: 100, height: 100, offset_x: 0, offset_y: 0}
//	        scale: {width: 50, height: 50}
//
// The show field accepts a single name, a list of names, or a group selector
// that scopes a nested default+show rule to one top-level group's
// descendants. The scale field accepts a bare number (a factor applied to
// the post-crop canvas) or a width/height pair where either side may be
// omitted and is derived from the post-crop aspect ratio.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Visibility is the baseline applied to nodes before show overrides.
type Visibility string

const (
	Show Visibility = "show"
	Hide Visibility = "hide"
)

// UnmarshalYAML validates the visibility enum.
func (v *Visibility) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch Visibility(s) {
	case Show, Hide:
		*v = Visibility(s)
		return nil
	}
	return fmt.Errorf("line %d: invalid visibility %q (want show or hide)", value.Line, s)
}

// File is a parsed specification file. Root is the directory containing the
// file; project and output paths are relative to it.
type File struct {
	Root     string              `yaml:"-"`
	Projects map[string]*Project `yaml:"projects"`
}

// Project is one document file and the exports rendered from it.
type Project struct {
	// Default, when set, is inherited by exports that do not set their own.
	Default *Visibility        `yaml:"default"`
	Exports map[string]*Export `yaml:"exports"`
}

// Export is one declarative export target.
type Export struct {
	Default *Visibility `yaml:"default"`
	Show    *ShowSpec   `yaml:"show"`
	Crop    *Crop       `yaml:"crop"`
	Scale   *Scale      `yaml:"scale"`
}

// DefaultVisibility returns the export's baseline, falling back to show
// when none was given.
func (e *Export) DefaultVisibility() Visibility {
	if e.Default != nil {
		return *e.Default
	}
	return Show
}

// ShowSpec is the union show field: a single name, a list of names, or a
// group selector. Exactly one of Names and Group is populated.
type ShowSpec struct {
	Names []string
	Group *GroupSelector
}

// GroupSelector scopes a nested default+show rule to the descendants of one
// top-level group.
type GroupSelector struct {
	Group   string
	Default *Visibility
	Show    []string
}

// DefaultVisibility returns the selector's inner baseline, falling back to
// show when none was given.
func (g *GroupSelector) DefaultVisibility() Visibility {
	if g.Default != nil {
		return *g.Default
	}
	return Show
}

// UnmarshalYAML accepts the three show shapes.
func (s *ShowSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		s.Names = []string{name}
		return nil

	case yaml.SequenceNode:
		return value.Decode(&s.Names)

	case yaml.MappingNode:
		sel := &GroupSelector{}
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			switch key.Value {
			case "group":
				if err := val.Decode(&sel.Group); err != nil {
					return err
				}
			case "default":
				sel.Default = new(Visibility)
				if err := val.Decode(sel.Default); err != nil {
					return err
				}
			case "show":
				names, err := decodeNameList(val)
				if err != nil {
					return err
				}
				sel.Show = names
			default:
				return fmt.Errorf("line %d: unknown group selector field %q", key.Line, key.Value)
			}
		}
		if sel.Group == "" {
			return fmt.Errorf("line %d: group selector requires a group name", value.Line)
		}
		s.Group = sel
		return nil
	}
	return fmt.Errorf("line %d: show must be a name, a list of names, or a group selector", value.Line)
}

func decodeNameList(value *yaml.Node) ([]string, error) {
	if value.Kind == yaml.ScalarNode {
		var name string
		if err := value.Decode(&name); err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return nil, fmt.Errorf("line %d: show must be a name or a list of names", value.Line)
	}
	return names, nil
}

// Crop is an explicit crop region. Dimensions and offsets are taken as
// given; there is no auto-fit.
type Crop struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`
}

// Scale is the union scale field: a bare factor, or a target width/height
// pair where a zero side is derived from the canvas aspect ratio.
type Scale struct {
	Factor float64
	Width  int
	Height int
}

// UnmarshalYAML accepts a number or a width/height mapping.
func (s *Scale) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&s.Factor)

	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			switch key.Value {
			case "width":
				if err := val.Decode(&s.Width); err != nil {
					return err
				}
			case "height":
				if err := val.Decode(&s.Height); err != nil {
					return err
				}
			default:
				return fmt.Errorf("line %d: unknown scale field %q", key.Line, key.Value)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: scale must be a factor or a width/height mapping", value.Line)
}

// Load reads and validates a specification file. Exports without a default
// inherit their project's; project and output paths stay relative, with
// File.Root recording the directory they resolve against.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export spec: %w", err)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	file.Root = filepath.Dir(abs)
	return file, nil
}

// Parse decodes and validates specification bytes. Unknown fields are
// rejected.
func Parse(data []byte) (*File, error) {
	var file File
	if err := unmarshalStrict(data, &file); err != nil {
		return nil, err
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	file.normalize()
	return &file, nil
}

func unmarshalStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (f *File) validate() error {
	for projectPath, project := range f.Projects {
		if project == nil {
			return fmt.Errorf("project %s: missing exports", projectPath)
		}
		for outputPath, export := range project.Exports {
			if export == nil {
				continue
			}
			if err := export.validate(); err != nil {
				return fmt.Errorf("%s: %s: %w", projectPath, outputPath, err)
			}
		}
	}
	return nil
}

func (e *Export) validate() error {
	if c := e.Crop; c != nil {
		if c.Width <= 0 || c.Height <= 0 {
			return fmt.Errorf("crop dimensions must be positive, got %dx%d", c.Width, c.Height)
		}
		if c.OffsetX < 0 || c.OffsetY < 0 {
			return fmt.Errorf("crop offsets must not be negative, got +%d+%d", c.OffsetX, c.OffsetY)
		}
	}
	if s := e.Scale; s != nil {
		if s.Factor != 0 {
			if s.Factor < 0 {
				return fmt.Errorf("scale factor must be positive, got %g", s.Factor)
			}
			if s.Width != 0 || s.Height != 0 {
				return fmt.Errorf("scale takes a factor or a width/height pair, not both")
			}
		} else if s.Width == 0 && s.Height == 0 {
			return fmt.Errorf("scale requires a factor, a width, or a height")
		}
		if s.Width < 0 || s.Height < 0 {
			return fmt.Errorf("scale dimensions must not be negative, got %dx%d", s.Width, s.Height)
		}
	}
	if s := e.Show; s != nil && s.Group != nil {
		for _, name := range s.Group.Show {
			if name == "" {
				return fmt.Errorf("group selector show names must not be empty")
			}
		}
	}
	return nil
}

func (f *File) normalize() {
	for _, project := range f.Projects {
		for out, export := range project.Exports {
			if export == nil {
				// A bare output path renders the document as loaded.
				export = &Export{}
				project.Exports[out] = export
			}
			if export.Default == nil {
				export.Default = project.Default
			}
		}
	}
}

// SortedProjects returns project paths in lexical order, for deterministic
// batch processing.
func (f *File) SortedProjects() []string {
	paths := make([]string, 0, len(f.Projects))
	for p := range f.Projects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// SortedExports returns a project's output paths in lexical order.
func (p *Project) SortedExports() []string {
	paths := make([]string, 0, len(p.Exports))
	for out := range p.Exports {
		paths = append(paths, out)
	}
	sort.Strings(paths)
	return paths
}
