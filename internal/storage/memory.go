package storage

// MemoryKV is a volatile KV used for tests and --ephemeral runs.
type MemoryKV struct {
	entries map[string]string

	// Injected failures for tests
	GetErr error
	SetErr error

	Writes int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

func (m *MemoryKV) Open() error  { return nil }
func (m *MemoryKV) Close() error { return nil }

func (m *MemoryKV) Get(key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = value
	m.Writes++
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Location() string { return "memory" }
