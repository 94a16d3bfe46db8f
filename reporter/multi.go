package reporter

import "context"

// MultiReporter reports to every Reporter in order. Nil entries are
// skipped. When any of them fail, the failures are returned as a
// *MultiError after all reporters ran.
type MultiReporter []Reporter

func (r MultiReporter) ReportWithLevel(ctx context.Context, level string, err error) error {
	var errs []error
	for _, rep := range r {
		if rep == nil {
			continue
		}
		if rerr := rep.ReportWithLevel(ctx, level, err); rerr != nil {
			errs = append(errs, rerr)
		}
	}

	if len(errs) > 0 {
		return &MultiError{Errors: errs}
	}
	return nil
}

// Flush flushes every reporter that buffers.
func (r MultiReporter) Flush() {
	for _, rep := range r {
		if f, ok := rep.(flusher); ok {
			f.Flush()
		}
	}
}
