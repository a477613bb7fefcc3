// Package factory binds entity configuration to object pools and hands
// out ready-to-use instances to weapons and spawners.
//
// Every factory releases all of its pooled instances on PrepareNewGame, so
// nothing from a previous session survives into the next one.
package factory

import "errors"

var (
	// ErrNotConfigured is returned when a factory was built without the
	// config or pool it needs. It is logged and the request degrades to a
	// no-op.
	ErrNotConfigured = errors.New("factory not configured")

	// ErrUnknownSize is returned for an asteroid size with no pool. It points
	// at broken entity data and is fatal to the game loop.
	ErrUnknownSize = errors.New("unknown asteroid size")
)
