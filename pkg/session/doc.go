// Package session provides the Manager, which serializes access to each
// conversation's state while allowing turns for different conversations to
// run in parallel. Locks are per conversation ID, reference counted, and
// optionally backed by a distributed locker for multi-replica deployments.
package session
