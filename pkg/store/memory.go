package store

import "sync"

// Memory is a process-local Store. A positive quota caps the total size of
// all stored values, like a browser's localStorage budget.
type Memory struct {
	mu    sync.Mutex
	data  map[string]string
	quota int

	// Fault injection for tests: when non-nil the matching call fails
	// with this error and leaves the data untouched.
	FailGet    error
	FailSet    error
	FailRemove error
}

func NewMemory(quota int) *Memory {
	return &Memory{
		data:  make(map[string]string),
		quota: quota,
	}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSet != nil {
		return m.FailSet
	}
	if m.quota > 0 && m.usedLocked()-len(m.data[key])+len(value) > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailRemove != nil {
		return m.FailRemove
	}
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) usedLocked() int {
	total := 0
	for _, v := range m.data {
		total += len(v)
	}
	return total
}
