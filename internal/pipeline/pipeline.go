// Package pipeline is a small generic step runner: internal/protect uses
// it to sequence named stages (scan, rewrite) over a shared context,
// rather than inlining that sequencing by hand.
package pipeline

import "fmt"

// step is a single named function executed within a pipeline. Every
// step registered with this package is a plain function; there is no
// call in this module for a step implemented any other way, so the
// type stays unexported.
type step[C any] struct {
	name string
	fn   func(C) error
}

// Pipeline orchestrates the sequential execution of registered steps,
// each mutating the shared context C.
type Pipeline[C any] struct {
	steps []step[C]
}

// New returns an empty pipeline.
func New[C any]() *Pipeline[C] { return &Pipeline[C]{} }

// Add appends a named step to the pipeline. name identifies the step in
// the error returned by Execute if fn fails.
func (p *Pipeline[C]) Add(name string, fn func(C) error) {
	p.steps = append(p.steps, step[C]{name: name, fn: fn})
}

// Execute runs all steps in order, passing the shared context to each.
// An error returned by any step stops execution and is wrapped with the
// failing step's name for easier debugging.
func (p *Pipeline[C]) Execute(ctx C) error {
	for _, s := range p.steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s step failed: %w", s.name, err)
		}
	}
	return nil
}
