package storage

// MemoryStore is an in-memory Store for tests. It counts writes so tests
// can assert the engine's write-minimization behavior, and can be made to
// fail writes to exercise the retry path.
type MemoryStore struct {
	imsiByICCID map[string]string
	spnByIMSI   map[string]string

	// IMSIWrites and SPNWrites count accepted SetIMSI/SetSPN calls
	IMSIWrites int
	SPNWrites  int

	// FailWrites makes SetIMSI and SetSPN return this error when set
	FailWrites error
}

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{
		imsiByICCID: make(map[string]string),
		spnByIMSI:   make(map[string]string),
	}
}

func (m *MemoryStore) IMSI(iccid string) (string, error) {
	return m.imsiByICCID[iccid], nil
}

func (m *MemoryStore) SetIMSI(iccid, imsi string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.imsiByICCID[iccid] = imsi
	m.IMSIWrites++
	return nil
}

func (m *MemoryStore) SPN(imsi string) (string, error) {
	return m.spnByIMSI[imsi], nil
}

func (m *MemoryStore) SetSPN(imsi, spn string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.spnByIMSI[imsi] = spn
	m.SPNWrites++
	return nil
}

func (m *MemoryStore) Close() error { return nil }
