// Package health provides the liveness and readiness probes of the blog
// server and the handlers that expose them.
//
// Probes compose with [All] and [Any]. [ContentLoaded] fails until a
// content snapshot is active. [ShutdownGate] fails readiness during drain
// so load balancers stop routing before in-flight requests finish.
package health
