// Package objects implements the object identifier registry: a built-in table of well-known OIDs with
// their numeric ids, plus permanent runtime registrations.
package objects
