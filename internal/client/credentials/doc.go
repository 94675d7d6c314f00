// Package credentials persists session secrets on the device.
//
// A Store is a flat key/value map of named secrets. Absence is a normal
// state: Get reports it with ok == false and never returns an error. Writes
// are last-write-wins; there is no locking across keys.
//
// Three backends are provided: SQLiteStore and BoltStore persist values
// sealed with AES-GCM under a key derived from a per-device secret, and
// MemoryStore keeps values in memguard enclaves for the lifetime of the
// process.
package credentials
