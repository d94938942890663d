// Package siminfo reconciles and caches SIM identity metadata.
//
// An Info instance tracks one SIM slot. It merges three sources with a
// defined precedence: live observations from the telephony stack (card
// insertion/removal, IMSI and SPN reports, network registration), the
// persistent ICCID-to-IMSI map, and the persistent per-IMSI SPN cache.
//
// The point of the cache is that the identifiers and the provider name
// can become available before the PIN code is entered and before the
// telephony stack itself knows them: a reinserted card is recognized by
// its ICCID alone.
//
// Every externally triggered update runs to completion and then flushes
// at most one change notification per kind (ICCID, IMSI, SPN), so
// observers never see transient intermediate states. Persistence writes
// are issued only when the stored value actually differs; a failed write
// is retried on the next change that touches the same store.
//
// Info is not internally synchronized. The hosting context must deliver
// all observations and observer registrations from one goroutine or hold
// its own lock.
package siminfo
