package report

import "github.com/hashicorp/go-multierror"

// WriteErrors accumulates report-write failures across a run's md/html/json
// dispatch so the caller can report all of them at once instead of bailing
// out on the first.
type WriteErrors struct {
	errs *multierror.Error
}

// Add records err if it is non-nil.
func (w *WriteErrors) Add(err error) {
	if err == nil {
		return
	}
	w.errs = multierror.Append(w.errs, err)
}

// HasErrors reports whether any error was recorded.
func (w *WriteErrors) HasErrors() bool {
	return w.errs.ErrorOrNil() != nil
}

// Err returns the accumulated error, or nil if none were recorded.
func (w *WriteErrors) Err() error {
	return w.errs.ErrorOrNil()
}
