package pipeline

import "fmt"

// PublishError reports the announcement at which publishing stopped.
type PublishError struct {
	Index int // zero-based index of the failed announcement
	Total int
	Cause error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing stopped at announcement %d of %d: %v", e.Index+1, e.Total, e.Cause)
}

func (e *PublishError) Unwrap() error {
	return e.Cause
}
