// Package domain contains the core value types of the wicker engine:
// sessions and their dialog stacks, dialog definitions and step results,
// pending prompts, recognized intents and entities, and outbound messages.
//
// Types here are plain data. Behavior (running steps, routing utterances,
// persisting sessions) lives in internal/runtime, pkg/session and the
// adapters.
package domain
