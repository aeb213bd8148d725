package coercion

/*
CoercionError is the single error kind returned when a codec path fails to convert
between payload bytes and a typed value. Malformed syntax, shape mismatches against
the receiver and truncated input all collapse into this one kind, distinguished only
by Message.

Nothing is retried or recovered when a codec fails: the error is built at the point of
failure and propagated to the caller unchanged.
*/
type CoercionError struct {
	// The codec's own description of the failure, unmodified.
	Message string

	// The codec error this coercion error was built from.
	source error
}

// Error string to conform to builtin error interface. Returns Message exactly as the
// codec produced it.
func (coercionErr *CoercionError) Error() string {
	return coercionErr.Message
}

// Implements xerrors.Wrapper, exposing the original codec error.
func (coercionErr *CoercionError) Unwrap() error {
	return coercionErr.source
}

// NewCoercionError wraps a codec failure, carrying the codec's message verbatim.
// Exposed for custom coercers registered through SetEncoder / SetDecoder.
func NewCoercionError(source error) *CoercionError {
	return &CoercionError{
		Message: source.Error(),
		source:  source,
	}
}
