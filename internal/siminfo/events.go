package siminfo

// ChangeKind identifies which public value of an Info changed
type ChangeKind int

const (
	ICCIDChanged ChangeKind = iota
	IMSIChanged
	SPNChanged
	kindCount
)

// String returns the wire name of the change kind
func (k ChangeKind) String() string {
	switch k {
	case ICCIDChanged:
		return "iccid-changed"
	case IMSIChanged:
		return "imsi-changed"
	case SPNChanged:
		return "spn-changed"
	default:
		return "unknown"
	}
}

// Handle identifies a registered observer
type Handle uint64

type observerEntry struct {
	handle Handle
	fn     func(*Info)
}

// observers is the per-kind registry of change callbacks.
// Callbacks run synchronously in registration order.
type observers struct {
	next   Handle
	byKind [kindCount][]observerEntry
}

func (o *observers) add(kind ChangeKind, fn func(*Info)) Handle {
	o.next++
	o.byKind[kind] = append(o.byKind[kind], observerEntry{o.next, fn})
	return o.next
}

func (o *observers) remove(h Handle) {
	for kind := range o.byKind {
		for i, e := range o.byKind[kind] {
			if e.handle == h {
				o.byKind[kind] = append(o.byKind[kind][:i], o.byKind[kind][i+1:]...)
				return
			}
		}
	}
}

func (o *observers) notify(kind ChangeKind, info *Info) {
	// Copy so a callback removing itself doesn't skip its neighbors
	entries := make([]observerEntry, len(o.byKind[kind]))
	copy(entries, o.byKind[kind])
	for _, e := range entries {
		e.fn(info)
	}
}
