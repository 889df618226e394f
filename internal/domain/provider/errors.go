package provider

import "errors"

var (
	// ErrInvalidArgument indicates a bad length, an unknown category or another rejected argument
	ErrInvalidArgument = errors.New("provider: invalid argument")

	// ErrMalformedInput indicates text that cannot be decoded (e.g. odd-length or non-hex input)
	ErrMalformedInput = errors.New("provider: malformed input")

	// ErrEntropyUnavailable indicates a strong random request the entropy source could not satisfy
	ErrEntropyUnavailable = errors.New("provider: entropy unavailable")

	// ErrRegistrationFailure indicates the object registry rejected a new entry
	ErrRegistrationFailure = errors.New("provider: object registration rejected")

	// ErrNotFound indicates a lookup without a matching entry
	ErrNotFound = errors.New("provider: not found")

	// ErrProvider indicates an opaque provider failure whose detail sits on the error queue
	ErrProvider = errors.New("provider: operation failed")

	// ErrNotInitialized indicates the provider tables have not been populated yet
	ErrNotInitialized = errors.New("provider: not initialized")
)
