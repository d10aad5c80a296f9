package ui

import "sync"

// Loading tracks which loading indicators are visible. Calls are not
// reference counted: one Hide undoes any number of Shows.
type Loading struct {
	mu      sync.Mutex
	visible map[string]bool
}

// NewLoading returns a Loading with every region hidden.
func NewLoading() *Loading {
	return &Loading{visible: make(map[string]bool)}
}

// Show makes region's indicator visible.
func (l *Loading) Show(region string) {
	l.mu.Lock()
	l.visible[region] = true
	l.mu.Unlock()
}

// Hide hides region's indicator.
func (l *Loading) Hide(region string) {
	l.mu.Lock()
	delete(l.visible, region)
	l.mu.Unlock()
}

// Visible reports whether region's indicator is shown.
func (l *Loading) Visible(region string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible[region]
}
