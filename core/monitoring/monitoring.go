package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopMonitor discards every report.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

// Recorder is an in-memory Monitor used in tests.
type Recorder struct {
	Errors []error
	Tags   []map[string]string
}

// CaptureException stores err and its tags.
func (r *Recorder) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err)
	r.Tags = append(r.Tags, tags)
}

// Flush is a no-op.
func (r *Recorder) Flush(time.Duration) {}
