package ebay

import "fmt"

// ConfigurationError indicates missing credentials; raised before any
// network call is attempted.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.Reason)
}

// UpstreamAuthError indicates the client-credentials exchange was rejected.
// Status and Body are kept for diagnostics.
type UpstreamAuthError struct {
	Status int
	Body   string
}

func (e UpstreamAuthError) Error() string {
	return fmt.Sprintf("upstream auth rejected (HTTP %d): %s", e.Status, e.Body)
}

// UpstreamRequestError indicates a search or detail call failed. These are
// recovered at item or category granularity, never fatal to a run.
type UpstreamRequestError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e UpstreamRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream request %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("upstream request %s: HTTP %d", e.Endpoint, e.Status)
}

func (e UpstreamRequestError) Unwrap() error {
	return e.Err
}
