package registry

import (
	"testing"

	"siminfod/internal/domain"
	"siminfod/internal/siminfo"
	"siminfod/internal/storage"
)

func TestAddAndPaths(t *testing.T) {
	r := New(storage.NewMemory())

	if err := r.Add("ril_1"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := r.Add("ril_0"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	// Re-adding is a no-op
	if err := r.Add("ril_0"); err != nil {
		t.Fatalf("Add() re-add error: %v", err)
	}
	if err := r.Add(""); err == nil {
		t.Error("Add(\"\") should fail")
	}

	paths := r.Paths()
	if len(paths) != 2 || paths[0] != "ril_0" || paths[1] != "ril_1" {
		t.Errorf("Paths() = %v, want [ril_0 ril_1]", paths)
	}
}

func TestApplyAndSnapshot(t *testing.T) {
	r := New(storage.NewMemory())
	r.Add("ril_0")

	if err := r.Apply("ril_0", Observation{Type: ObservationICCID, Value: "89441000000000000001"}); err != nil {
		t.Fatalf("Apply(iccid) error: %v", err)
	}
	if err := r.Apply("ril_0", Observation{Type: ObservationIMSI, Value: "234150000000001"}); err != nil {
		t.Fatalf("Apply(imsi) error: %v", err)
	}

	snap, ok := r.Snapshot("ril_0")
	if !ok {
		t.Fatal("Snapshot() not found")
	}
	if snap.ICCID != "89441000000000000001" || snap.IMSI != "234150000000001" {
		t.Errorf("Snapshot = %+v", snap)
	}

	if _, ok := r.Snapshot("ril_9"); ok {
		t.Error("Snapshot() of unknown slot should report not found")
	}
}

func TestApplyErrors(t *testing.T) {
	r := New(storage.NewMemory())
	r.Add("ril_0")

	if err := r.Apply("ril_9", Observation{Type: ObservationICCID}); err == nil {
		t.Error("Apply to unknown slot should fail")
	}
	if err := r.Apply("ril_0", Observation{Type: "bogus"}); err == nil {
		t.Error("Apply with unknown type should fail")
	}
	if err := r.Apply("ril_0", Observation{Type: ObservationRegistration}); err == nil {
		t.Error("registration observation without snapshot should fail")
	}
}

func TestChangeFuncReceivesCoalescedChanges(t *testing.T) {
	r := New(storage.NewMemory())

	type change struct {
		slot string
		kind siminfo.ChangeKind
	}
	var changes []change
	r.SetChangeFunc(func(slot string, kind siminfo.ChangeKind) {
		changes = append(changes, change{slot, kind})
	})
	r.Add("ril_0")

	r.Apply("ril_0", Observation{Type: ObservationICCID, Value: "89441000000000000001"})

	if len(changes) != 1 || changes[0].slot != "ril_0" || changes[0].kind != siminfo.ICCIDChanged {
		t.Errorf("changes = %v, want one ICCIDChanged for ril_0", changes)
	}
}

func TestRegistrationObservation(t *testing.T) {
	r := New(storage.NewMemory())
	r.Add("ril_0")

	r.Apply("ril_0", Observation{Type: ObservationICCID, Value: "89441000000000000001"})
	r.Apply("ril_0", Observation{Type: ObservationIMSI, Value: "234150000000001"})
	r.Apply("ril_0", Observation{Type: ObservationSIMState, Value: "ready", MCC: "234", MNC: "15"})
	r.Apply("ril_0", Observation{Type: ObservationRegistration, Registration: &domain.Registration{
		Status:       domain.RegistrationStatusRegistered,
		MCC:          "234",
		MNC:          "15",
		OperatorName: "Carrier X",
	}})

	snap, _ := r.Snapshot("ril_0")
	if snap.SPN != "Carrier X" {
		t.Errorf("SPN = %q, want Carrier X (home network inference)", snap.SPN)
	}
}

func TestClose(t *testing.T) {
	r := New(storage.NewMemory())
	r.Add("ril_0")
	r.Close()

	if len(r.Paths()) != 0 {
		t.Errorf("Paths() after Close = %v, want empty", r.Paths())
	}
	if err := r.Apply("ril_0", Observation{Type: ObservationICCID, Value: "x"}); err == nil {
		t.Error("Apply after Close should fail")
	}
}
