package ollama

import "fmt"

// ErrorKind classifies a failed chat call.
type ErrorKind int

const (
	// KindEndpoint means the server answered with a non-success status.
	KindEndpoint ErrorKind = iota
	// KindTimeout means the call exceeded the request timeout.
	KindTimeout
	// KindUnavailable means the endpoint refused the connection.
	KindUnavailable
)

// Error is a classified inference failure. Callers switch on Kind instead
// of inspecting transport internals.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("ollama chat timed out: %v", e.Err)
	case KindUnavailable:
		return fmt.Sprintf("ollama endpoint unreachable: %v", e.Err)
	default:
		return fmt.Sprintf("ollama chat status=%d: %v", e.Status, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
