// Package telephony models the upstream telephony stack for one SIM slot.
//
// The reconciliation engine does not talk to a modem directly. It observes
// a Watch: a per-slot view of what the telephony stack currently reports
// (ICCID, IMSI, network SPN, SIM readiness, network registration), with
// synchronous change callbacks. In the daemon the Watch is fed over the
// observation ingestion API; in tests it is driven directly.
package telephony

import "siminfod/internal/domain"

// Event identifies which observed value changed
type Event int

const (
	EventICCID Event = iota
	EventIMSI
	EventSPN
	EventSIMState
	EventRegistration
	eventCount
)

// Handle identifies a registered change handler
type Handle uint64

// Watch is the engine's view of one SIM slot. Accessors are pull-based and
// return the current observation; empty strings mean "not reported".
//
// Watch implementations are not internally synchronized. All calls,
// including handler registration and the Slot setters, must come from a
// single goroutine or be externally serialized.
type Watch interface {
	// Path returns the slot identifier (e.g. "ril_0")
	Path() string

	ICCID() string
	IMSI() string
	SPN() string

	SIMState() domain.SIMState
	// MCC and MNC return the home network codes from the SIM.
	// Only meaningful while SIMState is ready.
	MCC() string
	MNC() string

	Registration() domain.Registration

	// AddHandler registers a synchronous callback for one event kind.
	// Handlers run on the goroutine that applied the observation, in
	// registration order.
	AddHandler(ev Event, fn func()) Handle
	RemoveHandler(h Handle)
}
