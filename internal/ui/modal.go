package ui

import "sync"

// Modals tracks open dialogs and dispatches their "hidden" event.
type Modals struct {
	mu        sync.Mutex
	open      map[string]bool
	listeners map[string]map[int]func()
	nextID    int
}

// NewModals returns a Modals with every dialog closed.
func NewModals() *Modals {
	return &Modals{open: make(map[string]bool), listeners: make(map[string]map[int]func())}
}

// Open shows the dialog.
func (m *Modals) Open(id string) {
	m.mu.Lock()
	m.open[id] = true
	m.mu.Unlock()
}

// Close hides the dialog and fires its hidden listeners. Closing a dialog
// that is not open does nothing.
func (m *Modals) Close(id string) {
	m.mu.Lock()
	if !m.open[id] {
		m.mu.Unlock()
		return
	}
	delete(m.open, id)
	fns := make([]func(), 0, len(m.listeners[id]))
	for _, fn := range m.listeners[id] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// IsOpen reports whether the dialog is shown.
func (m *Modals) IsOpen(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open[id]
}

// OnHidden registers fn for the dialog's hidden event and returns the
// function that removes it.
func (m *Modals) OnHidden(id string, fn func()) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listeners[id] == nil {
		m.listeners[id] = make(map[int]func())
	}
	m.nextID++
	key := m.nextID
	m.listeners[id][key] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners[id], key)
	}
}
