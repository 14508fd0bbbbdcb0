// Package runtime contains the waterfall engine, the intent router, and the
// input coercion logic. It is internal; the public surface is the Bot facade
// in the repository root.
package runtime
