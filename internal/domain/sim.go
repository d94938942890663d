package domain

// SIMState represents the readiness of the SIM card in a slot
type SIMState string

const (
	SIMStateAbsent   SIMState = "absent"   // No card in the slot
	SIMStateInserted SIMState = "inserted" // Card present, not yet unlocked
	SIMStateLocked   SIMState = "locked"   // Waiting for PIN entry
	SIMStateReady    SIMState = "ready"    // Card unlocked, files readable
)

// Ready reports whether the SIM files (including MCC/MNC) are readable.
func (s SIMState) Ready() bool {
	return s == SIMStateReady
}

// ParseSIMState maps a reported state string to a SIMState.
// Unknown strings are treated as absent.
func ParseSIMState(s string) SIMState {
	switch SIMState(s) {
	case SIMStateInserted, SIMStateLocked, SIMStateReady:
		return SIMState(s)
	default:
		return SIMStateAbsent
	}
}

// MaxMCCLength and MaxMNCLength bound the home network codes as reported
// by the SIM (3GPP TS 24.008: MCC is 3 digits, MNC is 2 or 3).
const (
	MaxMCCLength = 3
	MaxMNCLength = 3
)

// DefaultSPNLength bounds the fallback service provider name derived from
// MCC+MNC when no real name is known.
const DefaultSPNLength = MaxMCCLength + MaxMNCLength + 1
