package telephony

import "siminfod/internal/domain"

// Slot is the mutable Watch implementation backing one SIM slot.
// Setters update the observed state and invoke the registered handlers
// for the corresponding event before returning.
type Slot struct {
	path string

	iccid    string
	imsi     string
	spn      string
	simState domain.SIMState
	mcc      string
	mnc      string
	reg      domain.Registration

	nextHandle Handle
	handlers   [eventCount][]handlerEntry
}

type handlerEntry struct {
	handle Handle
	fn     func()
}

// NewSlot creates an empty slot for the given path
func NewSlot(path string) *Slot {
	return &Slot{path: path, simState: domain.SIMStateAbsent}
}

func (s *Slot) Path() string                      { return s.path }
func (s *Slot) ICCID() string                     { return s.iccid }
func (s *Slot) IMSI() string                      { return s.imsi }
func (s *Slot) SPN() string                       { return s.spn }
func (s *Slot) SIMState() domain.SIMState         { return s.simState }
func (s *Slot) MCC() string                       { return s.mcc }
func (s *Slot) MNC() string                       { return s.mnc }
func (s *Slot) Registration() domain.Registration { return s.reg }

// AddHandler registers fn for ev and returns its handle
func (s *Slot) AddHandler(ev Event, fn func()) Handle {
	s.nextHandle++
	s.handlers[ev] = append(s.handlers[ev], handlerEntry{s.nextHandle, fn})
	return s.nextHandle
}

// RemoveHandler unregisters the handler with the given handle
func (s *Slot) RemoveHandler(h Handle) {
	for ev := range s.handlers {
		for i, e := range s.handlers[ev] {
			if e.handle == h {
				s.handlers[ev] = append(s.handlers[ev][:i], s.handlers[ev][i+1:]...)
				return
			}
		}
	}
}

func (s *Slot) notify(ev Event) {
	// Copy so a handler removing itself doesn't skip its neighbors
	entries := make([]handlerEntry, len(s.handlers[ev]))
	copy(entries, s.handlers[ev])
	for _, e := range entries {
		e.fn()
	}
}

// SetICCID reports a card identifier change. An empty value means the
// card was removed.
func (s *Slot) SetICCID(iccid string) {
	if s.iccid != iccid {
		s.iccid = iccid
		s.notify(EventICCID)
	}
}

// SetIMSI reports a subscriber identifier. Reporting an empty value is a
// valid observation ("nothing known yet") and still notifies.
func (s *Slot) SetIMSI(imsi string) {
	if s.imsi != imsi {
		s.imsi = imsi
		s.notify(EventIMSI)
	}
}

// SetSPN reports a network-provided service provider name
func (s *Slot) SetSPN(spn string) {
	if s.spn != spn {
		s.spn = spn
		s.notify(EventSPN)
	}
}

// SetSIMState reports card readiness together with the home network codes
// read from the SIM. MCC/MNC are cleared whenever the card is not ready.
func (s *Slot) SetSIMState(state domain.SIMState, mcc, mnc string) {
	if !state.Ready() {
		mcc, mnc = "", ""
	}
	if s.simState != state || s.mcc != mcc || s.mnc != mnc {
		s.simState = state
		s.mcc = mcc
		s.mnc = mnc
		s.notify(EventSIMState)
	}
}

// SetRegistration reports a network registration snapshot. Registration
// events always notify: the upstream stack re-reports status periodically
// and the home network check must re-run each time.
func (s *Slot) SetRegistration(reg domain.Registration) {
	s.reg = reg
	s.notify(EventRegistration)
}
