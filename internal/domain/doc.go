// Package domain defines the shared value types for siminfod.
//
// The types here model what the upstream telephony stack reports about a
// SIM slot: card readiness, the network registration snapshot, and the
// identifier strings (ICCID, IMSI, SPN) that the reconciliation engine
// merges and caches. All identifiers are treated as opaque printable
// strings; an empty string always means "absent".
package domain
