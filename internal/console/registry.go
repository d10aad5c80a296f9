// Package console hosts the per-session workspaces of the admin console.
// A workspace holds the users and groups pages of one browser session; each
// page owns its controller and UI surface until it is reopened or expires.
package console

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/odyssey-erp/admin-console/internal/groups"
	"github.com/odyssey-erp/admin-console/internal/ui"
	"github.com/odyssey-erp/admin-console/internal/users"
)

// Backend is the users API as seen by both pages.
type Backend interface {
	users.Backend
	groups.Backend
}

// Observer receives the number of live workspaces after every change.
type Observer interface {
	SetActiveWorkspaces(n int)
}

// Config tunes a Registry.
type Config struct {
	TTL         time.Duration
	SearchDelay time.Duration
	Schedule    ui.Scheduler
	Location    *time.Location
}

// DefaultTTL is how long an untouched workspace survives.
const DefaultTTL = 30 * time.Minute

type workspace struct {
	users    *users.Controller
	groups   *groups.Controller
	lastSeen time.Time
}

// Registry maps session ids to workspaces.
type Registry struct {
	backend  Backend
	logger   *slog.Logger
	cfg      Config
	observer Observer
	now      func() time.Time

	mu         sync.Mutex
	workspaces map[string]*workspace
}

// NewRegistry builds an empty Registry.
func NewRegistry(backend Backend, logger *slog.Logger, cfg Config, observer Observer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Registry{
		backend:    backend,
		logger:     logger,
		cfg:        cfg,
		observer:   observer,
		now:        time.Now,
		workspaces: make(map[string]*workspace),
	}
}

// OpenUsers implements users.Workspaces.
func (r *Registry) OpenUsers(sessionID string) *users.Controller {
	r.mu.Lock()
	ws := r.touchLocked(sessionID)
	previous := ws.users
	ws.users = r.newUsers()
	ctrl := ws.users
	r.mu.Unlock()

	closeUsers(previous)
	return ctrl
}

// Users implements users.Workspaces.
func (r *Registry) Users(sessionID string) *users.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.touchLocked(sessionID)
	if ws.users == nil {
		ws.users = r.newUsers()
	}
	return ws.users
}

// OpenGroups implements groups.Workspaces.
func (r *Registry) OpenGroups(sessionID string) *groups.Controller {
	r.mu.Lock()
	ws := r.touchLocked(sessionID)
	previous := ws.groups
	ws.groups = r.newGroups()
	ctrl := ws.groups
	r.mu.Unlock()

	closeGroups(previous)
	return ctrl
}

// Groups implements groups.Workspaces.
func (r *Registry) Groups(sessionID string) *groups.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.touchLocked(sessionID)
	if ws.groups == nil {
		ws.groups = r.newGroups()
	}
	return ws.groups
}

// Pages returns the UI surfaces currently open for sessionID.
func (r *Registry) Pages(sessionID string) []*ui.Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[sessionID]
	if !ok {
		return nil
	}
	ws.lastSeen = r.now()
	var pages []*ui.Page
	if ws.users != nil {
		pages = append(pages, ws.users.Page())
	}
	if ws.groups != nil {
		pages = append(pages, ws.groups.Page())
	}
	return pages
}

// DismissAlert removes the alert from whichever page of sessionID shows it.
func (r *Registry) DismissAlert(sessionID, alertID string) {
	for _, page := range r.Pages(sessionID) {
		page.Alerts.Dismiss(alertID)
	}
}

// Drop tears down the workspace of sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	ws, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	n := len(r.workspaces)
	r.mu.Unlock()

	if ok {
		teardown(ws)
		r.publish(n)
	}
}

// Sweep tears down every workspace idle for longer than the TTL and reports
// how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.TTL)
	r.mu.Lock()
	var expired []*workspace
	for id, ws := range r.workspaces {
		if ws.lastSeen.Before(cutoff) {
			expired = append(expired, ws)
			delete(r.workspaces, id)
		}
	}
	n := len(r.workspaces)
	r.mu.Unlock()

	for _, ws := range expired {
		teardown(ws)
	}
	if len(expired) > 0 {
		r.logger.Debug("expired console workspaces", slog.Int("count", len(expired)), slog.Int("active", n))
		r.publish(n)
	}
	return len(expired)
}

// Run sweeps expired workspaces every interval until ctx is done, then tears
// down everything left.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len reports the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Close tears down every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.workspaces
	r.workspaces = make(map[string]*workspace)
	r.mu.Unlock()

	for _, ws := range all {
		teardown(ws)
	}
	r.publish(0)
}

func (r *Registry) touchLocked(sessionID string) *workspace {
	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = &workspace{}
		r.workspaces[sessionID] = ws
		defer r.publish(len(r.workspaces))
	}
	ws.lastSeen = r.now()
	return ws
}

func (r *Registry) newUsers() *users.Controller {
	page := ui.NewPage(r.cfg.Schedule)
	return users.NewController(r.backend, page, r.logger, users.Config{
		SearchDelay: r.cfg.SearchDelay,
		Schedule:    r.cfg.Schedule,
	})
}

func (r *Registry) newGroups() *groups.Controller {
	page := ui.NewPage(r.cfg.Schedule)
	return groups.NewController(r.backend, page, r.logger, groups.Config{
		SearchDelay: r.cfg.SearchDelay,
		Schedule:    r.cfg.Schedule,
		Location:    r.cfg.Location,
	})
}

func (r *Registry) publish(n int) {
	if r.observer != nil {
		r.observer.SetActiveWorkspaces(n)
	}
}

func teardown(ws *workspace) {
	closeUsers(ws.users)
	closeGroups(ws.groups)
}

func closeUsers(c *users.Controller) {
	if c == nil {
		return
	}
	c.Close()
	c.Page().Close()
}

func closeGroups(c *groups.Controller) {
	if c == nil {
		return
	}
	c.Close()
	c.Page().Close()
}
