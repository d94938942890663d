// Package registry owns the per-slot reconciliation engines.
//
// The hosting context creates one Registry, adds a slot per modem path,
// and destroys everything together. Engines have no lifecycle of their
// own. The Registry also provides the serialization the engine requires:
// observations and reads for one slot are applied under a per-slot lock,
// so callers may arrive from any goroutine.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"siminfod/internal/domain"
	"siminfod/internal/metrics"
	"siminfod/internal/siminfo"
	"siminfod/internal/storage"
	"siminfod/internal/telephony"
)

// ObservationType identifies what an ingested observation reports
type ObservationType string

const (
	ObservationICCID        ObservationType = "iccid"
	ObservationIMSI         ObservationType = "imsi"
	ObservationSPN          ObservationType = "spn"
	ObservationSIMState     ObservationType = "sim-state"
	ObservationRegistration ObservationType = "registration"
)

// Observation is one report from the external telephony stack
type Observation struct {
	Type  ObservationType `json:"type"`
	Value string          `json:"value,omitempty"`

	// MCC and MNC accompany sim-state observations
	MCC string `json:"mcc,omitempty"`
	MNC string `json:"mnc,omitempty"`

	// Registration accompanies registration observations
	Registration *domain.Registration `json:"registration,omitempty"`
}

// Snapshot is the current public identity of one slot. Empty strings
// mean "absent".
type Snapshot struct {
	Slot  string `json:"slot"`
	ICCID string `json:"iccid"`
	IMSI  string `json:"imsi"`
	SPN   string `json:"spn"`
}

// ChangeFunc receives coalesced change notifications for any slot
type ChangeFunc func(slot string, kind siminfo.ChangeKind)

type entry struct {
	mu   sync.Mutex
	slot *telephony.Slot
	info *siminfo.Info
}

// Registry maps slot paths to engines
type Registry struct {
	mu       sync.RWMutex
	store    storage.Store
	entries  map[string]*entry
	onChange ChangeFunc
}

// New creates an empty registry backed by the given store
func New(store storage.Store) *Registry {
	return &Registry{
		store:   store,
		entries: make(map[string]*entry),
	}
}

// SetChangeFunc installs the notification sink for all slots, present
// and future. Call before Add; changes during priming are never
// delivered.
func (r *Registry) SetChangeFunc(fn ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Add registers a slot path and creates its engine. Adding an existing
// path is a no-op so config reloads can re-list known slots.
func (r *Registry) Add(path string) error {
	if path == "" {
		return fmt.Errorf("empty slot path")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[path]; ok {
		return nil
	}

	slot := telephony.NewSlot(path)
	info := siminfo.New(slot, r.store)
	e := &entry{slot: slot, info: info}

	if fn := r.onChange; fn != nil {
		info.AddICCIDChangedHandler(func(i *siminfo.Info) { fn(i.Path(), siminfo.ICCIDChanged) })
		info.AddIMSIChangedHandler(func(i *siminfo.Info) { fn(i.Path(), siminfo.IMSIChanged) })
		info.AddSPNChangedHandler(func(i *siminfo.Info) { fn(i.Path(), siminfo.SPNChanged) })
	}

	r.entries[path] = e
	return nil
}

// Paths returns the registered slot paths, sorted
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.entries))
	for p := range r.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Snapshot returns the current identity of one slot
func (r *Registry) Snapshot(path string) (Snapshot, bool) {
	r.mu.RLock()
	e, ok := r.entries[path]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Slot:  path,
		ICCID: e.info.ICCID(),
		IMSI:  e.info.IMSI(),
		SPN:   e.info.SPN(),
	}, true
}

// Apply delivers one observation to a slot. The full update cycle
// (reconcile, persist, notify) completes before Apply returns.
func (r *Registry) Apply(path string, obs Observation) error {
	r.mu.RLock()
	e, ok := r.entries[path]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown slot %q", path)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch obs.Type {
	case ObservationICCID:
		e.slot.SetICCID(obs.Value)
	case ObservationIMSI:
		e.slot.SetIMSI(obs.Value)
	case ObservationSPN:
		e.slot.SetSPN(obs.Value)
	case ObservationSIMState:
		e.slot.SetSIMState(domain.ParseSIMState(obs.Value), obs.MCC, obs.MNC)
	case ObservationRegistration:
		if obs.Registration == nil {
			return fmt.Errorf("registration observation without snapshot")
		}
		reg := *obs.Registration
		reg.Status = domain.ParseRegistrationStatus(string(reg.Status))
		e.slot.SetRegistration(reg)
	default:
		return fmt.Errorf("unknown observation type %q", obs.Type)
	}

	metrics.ObservationsTotal.WithLabelValues(string(obs.Type)).Inc()
	return nil
}

// Close tears down all engines. The registry must not be used afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.info.Close()
	}
	r.entries = make(map[string]*entry)
}
