// Package storage defines the persistence layer for cached SIM identity.
//
// Two logical key-value stores are maintained: a global ICCID-to-IMSI map
// (so a reinserted card is recognized before the modem reports its IMSI)
// and a per-IMSI cache holding the last known service provider name. The
// actual implementation is in sqlite.go; memory.go provides an in-memory
// store for tests.
//
// The engine minimizes writes itself (read, compare, write only on
// change) because the typical deployment target is write-cycle-limited
// flash. Store implementations are plain get/set and must treat a lookup
// miss as an empty string, not an error.
//
// Store methods take no context: all I/O is synchronous and local, and
// no cancellation applies to engine updates.
package storage

// Store persists SIM identity metadata across card reinsertion and
// process restarts.
type Store interface {
	// IMSI returns the subscriber identifier recorded for a card,
	// or "" when the card has never been seen.
	IMSI(iccid string) (string, error)

	// SetIMSI records the subscriber identifier for a card
	SetIMSI(iccid, imsi string) error

	// SPN returns the cached service provider name for a subscriber,
	// or "" when none is cached.
	SPN(imsi string) (string, error)

	// SetSPN caches the service provider name for a subscriber
	SetSPN(imsi, spn string) error

	// Close releases resources
	Close() error
}
