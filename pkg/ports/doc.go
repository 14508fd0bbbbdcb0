// Package ports defines the narrow interfaces the engine depends on:
// session persistence, per-conversation locking, and utterance recognition.
// Adapters under pkg/adapters implement them; the contract suite in this
// package verifies store implementations behave identically.
package ports
