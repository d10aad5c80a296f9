package console

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/admin-console/internal/platform/httpx"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/ui"
)

// Handler serves the page-independent console endpoints.
type Handler struct {
	logger       *slog.Logger
	registry     *Registry
	sessions     *shared.SessionManager
	secureCookie bool
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, registry *Registry, sessions *shared.SessionManager, secureCookie bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, registry: registry, sessions: sessions, secureCookie: secureCookie}
}

// MountRoutes registers theme, alert and session routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/theme", h.toggleTheme)
	r.Post("/alerts/{id}/dismiss", h.dismissAlert)
	r.Post("/session/reset", h.resetSession)
}

type themeResponse struct {
	Theme string `json:"theme"`
	Icon  string `json:"icon"`
}

func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := ui.ToggleTheme(ui.NewCookieThemeStore(w, r, h.secureCookie))
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, themeResponse{Theme: string(theme), Icon: theme.Icon()})
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

func (h *Handler) dismissAlert(w http.ResponseWriter, r *http.Request) {
	h.registry.DismissAlert(shared.SessionID(r.Context()), chi.URLParam(r, "id"))
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// resetSession drops the workspace and ends the session; the next request
// starts from a fresh one.
func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := shared.SessionID(ctx)
	h.registry.Drop(sessionID)
	if h.sessions != nil {
		h.sessions.Destroy(shared.SessionFromContext(ctx))
	}
	h.logger.Info("console session reset", slog.String("session", sessionID))
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// backTo returns the same-origin page the request came from, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.Path
}
