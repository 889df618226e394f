// Package random implements the provider's process-wide random number subsystem: an entropy pool,
// strong and pseudo generation, seed files and entropy-gathering daemon sockets.
package random
