// Package provider defines the core interfaces and structures of the cryptographic provider exposed to the
// scripting host, such as algorithm categories, object identifiers, random generation modes, error records and
// the global initialization state.
package provider
