// Package ui holds the page-level widgets shared by the console controllers:
// alerts, loading indicators, modal dialogs, formatting, debouncing and theme.
package ui

// Page is the UI surface one browser page renders from.
type Page struct {
	Alerts  *Notifier
	Loading *Loading
	Modals  *Modals
}

// NewPage assembles a Page whose timers run on schedule.
func NewPage(schedule Scheduler) *Page {
	return &Page{
		Alerts:  NewNotifier(schedule),
		Loading: NewLoading(),
		Modals:  NewModals(),
	}
}

// Close releases the page's timers.
func (p *Page) Close() {
	if p == nil {
		return
	}
	p.Alerts.Close()
}
