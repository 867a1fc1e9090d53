// Package ratelimit is per client IP rate limiting middleware for the
// public blog listener.
//
// It is in-memory and per instance. It stops one address from exhausting
// render goroutines and makes abusers visible (one log line per offender,
// a counter per denial). It does not stop distributed floods or bandwidth
// attacks; those belong upstream.
//
// Static assets and probes are exempt by default since a single page view
// fetches several assets.
package ratelimit
