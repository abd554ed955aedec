// Package config holds the in-process option structs that parameterize
// the dispatcher and remote-DOM renderer: timeouts, concurrency caps,
// and tree-depth limits. It is deliberately not a
// file or CLI config loader — wiring a process's configuration surface
// (flags, env vars, config files) is an embedding concern this module
// excludes, matching spec.md's explicit collaborator boundary.
package config

import "time"

// Dispatcher holds the tunables dispatcher.New's options translate
// from, letting an embedder build one Config object instead of threading
// individual dispatcher.Option values through its own wiring code.
type Dispatcher struct {
	// RequestTimeout bounds how long a correlated tool/prompt request
	// waits before the dispatcher settles it with {success:false,
	// error:"timeout"}. Zero selects dispatcher.DefaultTimeout.
	RequestTimeout time.Duration

	// MaxInFlightPerFrame caps concurrent pending requests per frame.
	// Zero selects dispatcher.DefaultMaxInFlightPerFrame.
	MaxInFlightPerFrame int64
}

// RemoteDOM holds the remote-DOM renderer tunables. No constructor in
// this module reads it: render.RemoteDOMOptions and hostloop.Options
// each take their own MaxTreeDepth value.
type RemoteDOM struct {
	// MaxTreeDepth caps materialized tree depth. Zero selects
	// render.DefaultMaxTreeDepth.
	MaxTreeDepth int
}

// DefaultDispatcher returns a Dispatcher populated with this module's documented
// defaults, useful as a starting point for an embedder that wants to
// override only one field.
func DefaultDispatcher() Dispatcher {
	return Dispatcher{
		RequestTimeout:      30 * time.Second,
		MaxInFlightPerFrame: 256,
	}
}

// DefaultRemoteDOM returns a RemoteDOM populated with this module's
// documented defaults.
func DefaultRemoteDOM() RemoteDOM {
	return RemoteDOM{MaxTreeDepth: 64}
}
