package provider

import (
	"context"
	"io"
)

// HexCodec converts between raw bytes and lowercase hexadecimal text through an
// arbitrary-precision integer. Leading zero bytes do not survive a round trip.
type HexCodec interface {
	// Encode renders bytes as a big-endian unsigned integer in lowercase hex.
	Encode(data []byte) string

	// Decode parses hex text as a big-endian unsigned integer and returns its minimal byte form.
	// Odd-length or non-hex text fails with ErrMalformedInput.
	Decode(text string) ([]byte, error)
}

// AlgorithmEnumerator lists the names registered in the provider's algorithm tables
type AlgorithmEnumerator interface {
	// List returns the sorted, duplicate-free names of a category.
	List(category Category) ([]string, error)
}

// ObjectRegistry looks up and registers object identifiers.
// Registration is the only write and is permanent for the process.
type ObjectRegistry interface {
	// LookupByID returns the object with the given numeric id.
	LookupByID(nid int) (*Object, bool)

	// LookupByOID resolves a dotted OID, short name or long name.
	LookupByOID(text string) (*Object, bool)

	// Register creates a new entry and returns its handle.
	Register(ctx context.Context, spec ObjectSpec) (*Object, error)
}

// RandomGenerator is the provider's process-wide random number subsystem
type RandomGenerator interface {
	// Bytes returns exactly n random bytes generated in the given mode.
	Bytes(ctx context.Context, n int, mode RandMode) ([]byte, error)

	// LoadFile mixes seed material from a file or entropy-gathering socket into the pool and
	// reports the resulting status. A socket load reports success without consulting the pool.
	LoadFile(ctx context.Context, path string) (bool, error)

	// WriteFile persists pool output to a seed file.
	WriteFile(ctx context.Context, path string) error

	// Status reports whether the pool is adequately seeded.
	Status() bool

	// Cleanup releases the pool state. Do not call while other threads may still request randomness.
	Cleanup()
}

// ErrorQueue is a single thread's provider error queue
type ErrorQueue interface {
	// Push appends a record.
	Push(rec ErrorRecord)

	// Drain pops one record, optionally dumps the rest to w, and clears the queue.
	Drain(verbose bool, w io.Writer) (ErrorRecord, bool)

	// Len returns the number of pending records.
	Len() int
}
