package sandbox

import "fmt"

// DeniedError reports a path refused by confinement validation.
type DeniedError struct {
	Path   string
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// UnreadableError reports file content that cannot be returned as text:
// binary data, an over-size file, or bytes that defeat even replacement
// decoding.
type UnreadableError struct {
	Path   string
	Reason string
}

func (e *UnreadableError) Error() string {
	return e.Reason
}
