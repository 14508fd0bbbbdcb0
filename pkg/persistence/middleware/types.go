// Package middleware provides composable wrappers around a session store:
// encryption at rest and PII masking. Middlewares stack; order matters
// (mask first, then encrypt).
package middleware

import "github.com/aretw0/wicker/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies the middlewares to the store, first middleware outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
