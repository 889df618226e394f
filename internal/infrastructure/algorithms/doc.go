// Package algorithms holds the provider's algorithm name tables: digests, ciphers, public-key methods and
// compression methods, each name optionally an alias of a canonical entry. It also keeps the static table of
// TLS cipher suites used by the secure-transport sub-module.
package algorithms
