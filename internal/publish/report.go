package publish

import (
	"errors"
	"fmt"
)

// Collision is a post that was not written because an earlier post in the
// same run already claimed its file name.
type Collision struct {
	Path      string
	Title     string
	KeptTitle string
}

// Failure is a post that could not be published.
type Failure struct {
	Title string
	Path  string
	Err   error
}

// Report summarises one publishing run.
type Report struct {
	Written    []string
	Unchanged  []string
	Skipped    int
	Collisions []Collision
	Failures   []Failure
}

// Err joins every failure and collision, or returns nil when there were none.
func (r Report) Err() error {
	var errs []error
	for _, c := range r.Collisions {
		errs = append(errs, fmt.Errorf("post %q: file %s already written for %q", c.Title, c.Path, c.KeptTitle))
	}
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("post %q: %w", f.Title, f.Err))
	}
	return errors.Join(errs...)
}
