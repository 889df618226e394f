// Package errqueue implements the provider's per-thread error queues and the error-string table used to
// render queued codes as text.
//
// Queues are never shared between threads: each host thread owns one queue and hands it to provider
// calls through a context. Records are drained oldest first.
package errqueue
