// Package store implements the client-side credential slot: one durable
// key/value cell holding the raw bearer credential, shared between every
// process ("tab") pointed at the same backing file. Absence means anonymous.
// The slot carries no expiry logic; every write is an unconditional
// replace-or-clear, never a read-modify-write.
package store

import "context"

// SlotKey is the fixed key the credential is stored under.
const SlotKey = "credential"

// Change describes an observed mutation of the credential slot.
// An empty New means the credential was removed.
type Change struct {
	Old string
	New string
}

// Store is the credential slot contract. Get returns an empty string when no
// credential is held.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}
