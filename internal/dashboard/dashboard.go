// Package dashboard renders the console home page with user and group counts.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
	"github.com/odyssey-erp/admin-console/internal/platform/httpx"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/view"
)

// Backend lists the collections the counters are computed from.
type Backend interface {
	ListUsers(ctx context.Context) ([]apiclient.User, error)
	ListGroups(ctx context.Context) ([]apiclient.Group, error)
}

// Stats are the home page counters.
type Stats struct {
	Users       int `json:"users"`
	Groups      int `json:"groups"`
	ActiveUsers int `json:"active_users"`
	Admins      int `json:"admins"`
}

// Summarize counts users, groups, active users and admins.
func Summarize(users []apiclient.User, groups []apiclient.Group) Stats {
	stats := Stats{Users: len(users), Groups: len(groups)}
	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		}
		if u.IsAdmin {
			stats.Admins++
		}
	}
	return stats
}

// PageView is the home page view-model.
type PageView struct {
	Stats Stats
	Error string
}

// Handler serves the home page.
type Handler struct {
	logger    *slog.Logger
	backend   Backend
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, backend Backend, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, backend: backend, templates: templates, csrf: csrf}
}

// MountRoutes registers the home routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Get("/stats", h.stats)
}

// Load fetches both collections concurrently and summarizes them.
func (h *Handler) Load(ctx context.Context) (Stats, error) {
	var (
		users  []apiclient.User
		groups []apiclient.Group
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = h.backend.ListUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		groups, err = h.backend.ListGroups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Summarize(users, groups), nil
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	data := PageView{}
	stats, err := h.Load(r.Context())
	if err != nil {
		h.logger.Warn("dashboard counters failed", slog.Any("error", err))
		data.Error = "Erro ao carregar estatísticas: " + apiclient.Message(err)
		status = http.StatusBadGateway
	} else {
		data.Stats = stats
	}

	csrfToken, _ := h.csrf.EnsureToken(r.Context(), shared.SessionFromContext(r.Context()))
	viewData := view.NewTemplateData(r, "Início", csrfToken, nil, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Load(r.Context())
	if err != nil {
		h.logger.Warn("dashboard counters failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
