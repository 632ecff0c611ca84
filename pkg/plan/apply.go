package plan

import (
	"errors"
	"fmt"
)

type savedFlag struct {
	entry    Entry // the planned entry; Node is what matters here
	original bool
}

// RestoreToken records the original visibility of every node an Apply call
// touched, so that Restore is exact even if intervening code mutated those
// nodes again. Flags are independent; restoration order is unspecified.
type RestoreToken struct {
	saved []savedFlag
}

// Apply walks the plan and sets every node whose current visibility differs
// from its planned one. Applying an already-applied plan touches nothing, so
// application is idempotent.
//
// The returned token is valid even when err is non-nil: a failure mid-apply
// leaves the flags set so far recorded, and the caller's deferred Restore
// reverts them. Callers must restore on every exit path:
//
//	token, err := p.Apply()
//	defer token.Restore()
func (p *Plan) Apply() (*RestoreToken, error) {
	token := &RestoreToken{}
	for _, e := range p.entries {
		current, err := e.Node.Visible()
		if err != nil {
			return token, fmt.Errorf("read visibility of %q: %w", e.Node.Name(), err)
		}
		if current == e.Visible {
			continue
		}
		if err := e.Node.SetVisible(e.Visible); err != nil {
			return token, fmt.Errorf("set visibility of %q: %w", e.Node.Name(), err)
		}
		token.saved = append(token.saved, savedFlag{entry: e, original: current})
	}
	return token, nil
}

// Restore puts every touched node back to the visibility it had immediately
// before Apply. A failure on one node does not stop the others.
func (t *RestoreToken) Restore() error {
	var errs []error
	for _, s := range t.saved {
		if err := s.entry.Node.SetVisible(s.original); err != nil {
			errs = append(errs, fmt.Errorf("restore %q: %w", s.entry.Node.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Touched returns how many nodes Apply changed.
func (t *RestoreToken) Touched() int { return len(t.saved) }
