package ui

import "sync"

// ModalState tracks which modal, if any, is open for a page. At most one modal
// is visible at a time; opening a second one replaces the first.
type ModalState struct {
	mu     sync.Mutex
	active string
}

// Open makes the named modal the active one.
func (m *ModalState) Open(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = name
}

// Close hides the modal if it is the active one.
func (m *ModalState) Close(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == name {
		m.active = ""
	}
}

// CloseAll hides whatever is open.
func (m *ModalState) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = ""
}

// Active returns the open modal name, or "" when none is open.
func (m *ModalState) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
