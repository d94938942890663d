package siminfo

import "testing"

func TestChangeKindString(t *testing.T) {
	tests := []struct {
		kind ChangeKind
		want string
	}{
		{ICCIDChanged, "iccid-changed"},
		{IMSIChanged, "imsi-changed"},
		{SPNChanged, "spn-changed"},
		{ChangeKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestObserversNotifyInRegistrationOrder(t *testing.T) {
	var o observers
	var order []int

	o.add(SPNChanged, func(*Info) { order = append(order, 1) })
	h := o.add(SPNChanged, func(*Info) { order = append(order, 2) })
	o.add(SPNChanged, func(*Info) { order = append(order, 3) })

	o.notify(SPNChanged, nil)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("notify order = %v, want [1 2 3]", order)
	}

	order = nil
	o.remove(h)
	o.notify(SPNChanged, nil)
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("notify after remove = %v, want [1 3]", order)
	}
}

func TestObserverMayRemoveItselfDuringNotify(t *testing.T) {
	var o observers
	var h Handle
	calls := 0

	h = o.add(ICCIDChanged, func(*Info) {
		calls++
		o.remove(h)
	})
	later := 0
	o.add(ICCIDChanged, func(*Info) { later++ })

	o.notify(ICCIDChanged, nil)
	o.notify(ICCIDChanged, nil)

	if calls != 1 {
		t.Errorf("self-removing observer ran %d times, want 1", calls)
	}
	if later != 2 {
		t.Errorf("neighbor observer ran %d times, want 2", later)
	}
}
