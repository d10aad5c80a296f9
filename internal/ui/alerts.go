package ui

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity selects the style and icon of an alert.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Default auto-dismiss delays per severity.
const (
	SuccessDuration = 5000 * time.Millisecond
	DangerDuration  = 7000 * time.Millisecond
	WarningDuration = 6000 * time.Millisecond
	InfoDuration    = 5000 * time.Millisecond
)

// Icon returns the icon glyph of the severity.
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "check-circle-fill"
	case SeverityDanger:
		return "exclamation-triangle-fill"
	case SeverityWarning:
		return "exclamation-circle-fill"
	default:
		return "info-circle-fill"
	}
}

// Alert is one dismissible banner.
type Alert struct {
	ID       string
	Message  string
	Severity Severity
	Duration time.Duration
}

// Icon returns the glyph for the alert's severity.
func (a Alert) Icon() string {
	return a.Severity.Icon()
}

// DurationMillis feeds the client-side auto-dismiss timer.
func (a Alert) DurationMillis() int64 {
	return a.Duration.Milliseconds()
}

// Notifier keeps the alert container of one page.
type Notifier struct {
	mu       sync.Mutex
	alerts   []Alert
	schedule Scheduler
	timers   map[string]Timer
}

// NewNotifier builds a Notifier using schedule for auto-dismiss.
func NewNotifier(schedule Scheduler) *Notifier {
	if schedule == nil {
		schedule = RealScheduler
	}
	return &Notifier{schedule: schedule, timers: make(map[string]Timer)}
}

// ShowAlert appends an alert; a zero duration keeps it until dismissed.
func (n *Notifier) ShowAlert(message string, severity Severity, duration time.Duration) Alert {
	alert := Alert{ID: "alert-" + uuid.NewString(), Message: message, Severity: severity, Duration: duration}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	if duration > 0 {
		id := alert.ID
		n.timers[id] = n.schedule(duration, func() { n.Dismiss(id) })
	}
	return alert
}

// ShowSuccess shows a success alert for 5s.
func (n *Notifier) ShowSuccess(message string) Alert {
	return n.ShowAlert(message, SeveritySuccess, SuccessDuration)
}

// ShowError shows a danger alert for 7s.
func (n *Notifier) ShowError(message string) Alert {
	return n.ShowAlert(message, SeverityDanger, DangerDuration)
}

// ShowWarning shows a warning alert for 6s.
func (n *Notifier) ShowWarning(message string) Alert {
	return n.ShowAlert(message, SeverityWarning, WarningDuration)
}

// ShowInfo shows an info alert for 5s.
func (n *Notifier) ShowInfo(message string) Alert {
	return n.ShowAlert(message, SeverityInfo, InfoDuration)
}

// Dismiss removes an alert. Unknown ids are ignored.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, a := range n.alerts {
		if a.ID == id {
			n.alerts = append(n.alerts[:i], n.alerts[i+1:]...)
			return
		}
	}
}

// Alerts returns the visible alerts, oldest first.
func (n *Notifier) Alerts() []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Alert, len(n.alerts))
	copy(out, n.alerts)
	return out
}

// Close stops every auto-dismiss timer and clears the container.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	n.alerts = nil
}
