package predictor

import "fmt"

// Fallback reasons reported in metrics.
const (
	ReasonAuth      = "auth"
	ReasonTransport = "transport"
	ReasonStatus    = "status"
	ReasonDecode    = "decode"
)

// UpstreamError describes why the remote endpoint could not be used.
type UpstreamError struct {
	Reason     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream unavailable (%s %d): %v", e.Reason, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream unavailable (%s): %v", e.Reason, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
