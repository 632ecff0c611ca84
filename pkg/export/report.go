package export

// Entry is the outcome of one export target.
type Entry struct {
	Project    string // project path, relative to the specification file's directory
	OutputPath string // output path, relative to the specification file's directory
	Err        error  // nil on success
}

// Failed reports whether the entry failed.
func (e Entry) Failed() bool { return e.Err != nil }

// Report aggregates per-entry outcomes across a whole batch. A batch keeps
// running through individual failures; the report is how they surface.
type Report struct {
	Entries []Entry
}

func (r *Report) add(project, output string, err error) {
	r.Entries = append(r.Entries, Entry{Project: project, OutputPath: output, Err: err})
}

// Failed returns the number of failed entries.
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Failed() {
			n++
		}
	}
	return n
}

// OK reports whether every entry succeeded.
func (r *Report) OK() bool { return r.Failed() == 0 }
