package gemini

import "errors"

// Classified gateway failures. The orchestrator never retries any of them
// within a request; retry policy belongs to the caller. Use errors.Is.
var (
	// ErrTimeout: the bounded per-call timeout elapsed.
	ErrTimeout = errors.New("generation timed out")

	// ErrTransport: the provider could not be reached or the connection
	// failed mid-request.
	ErrTransport = errors.New("generation transport failure")

	// ErrRejected: the provider answered with a non-success status.
	ErrRejected = errors.New("generation rejected by provider")

	// ErrMalformed: the provider answered 200 with a body this client
	// cannot interpret.
	ErrMalformed = errors.New("malformed generation response")
)
