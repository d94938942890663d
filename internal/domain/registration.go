package domain

// RegistrationStatus represents the network registration state of a slot
type RegistrationStatus string

const (
	RegistrationStatusUnregistered RegistrationStatus = "unregistered"
	RegistrationStatusSearching    RegistrationStatus = "searching"
	RegistrationStatusRegistered   RegistrationStatus = "registered"
	RegistrationStatusDenied       RegistrationStatus = "denied"
	RegistrationStatusRoaming      RegistrationStatus = "roaming"
	RegistrationStatusUnknown      RegistrationStatus = "unknown"
)

// Registered reports whether the modem is attached to a network,
// either at home or roaming.
func (s RegistrationStatus) Registered() bool {
	return s == RegistrationStatusRegistered || s == RegistrationStatusRoaming
}

// ParseRegistrationStatus maps a reported status string to a
// RegistrationStatus. Unknown strings map to RegistrationStatusUnknown.
func ParseRegistrationStatus(s string) RegistrationStatus {
	switch RegistrationStatus(s) {
	case RegistrationStatusUnregistered, RegistrationStatusSearching,
		RegistrationStatusRegistered, RegistrationStatusDenied,
		RegistrationStatusRoaming:
		return RegistrationStatus(s)
	default:
		return RegistrationStatusUnknown
	}
}

// Registration is the last known network registration snapshot for a slot,
// as supplied by the network registration collaborator.
type Registration struct {
	Status       RegistrationStatus `json:"status"`
	MCC          string             `json:"mcc,omitempty"`
	MNC          string             `json:"mnc,omitempty"`
	OperatorName string             `json:"operator_name,omitempty"`
}

// HomeNetwork reports whether this registration is with the network
// identified by the SIM's own (mcc, mnc). All four codes must be present
// and match exactly.
func (r Registration) HomeNetwork(simMCC, simMNC string) bool {
	return simMCC != "" && simMNC != "" && r.MCC != "" && r.MNC != "" &&
		r.MCC == simMCC && r.MNC == simMNC
}
