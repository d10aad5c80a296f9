package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/admin-console/internal/platform/httpx"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/view"
)

// Workspaces resolves the users controller owned by a browser session.
type Workspaces interface {
	// OpenUsers tears down the session's previous users page and starts a fresh one.
	OpenUsers(sessionID string) *Controller
	// Users returns the session's current users page, starting one if needed.
	Users(sessionID string) *Controller
}

// DefaultSearchWait bounds how long a live search request waits for the
// debounced render.
const DefaultSearchWait = 2 * time.Second

// Handler manages user management endpoints.
type Handler struct {
	logger     *slog.Logger
	workspaces Workspaces
	templates  *view.Engine
	csrf       *shared.CSRFManager
	searchWait time.Duration
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, workspaces Workspaces, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, workspaces: workspaces, templates: templates, csrf: csrf, searchWait: DefaultSearchWait}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showPage)
	r.Get("/table", h.table)
	r.Post("/", h.create)
	r.Get("/modals/{modal}", h.openModal)
	r.Post("/modals/{modal}/close", h.closeModal)
	r.Route("/{id}", func(r chi.Router) {
		r.Post("/", h.update)
		r.Get("/edit", h.openEdit)
		r.Post("/status", h.toggleStatus)
		r.Post("/admin", h.toggleAdmin)
		r.Get("/password", h.openPassword)
		r.Post("/password", h.resetPassword)
		r.Get("/delete", h.openDelete)
		r.Post("/delete", h.confirmDelete)
	})
}

func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	ctrl := h.workspaces.OpenUsers(shared.SessionID(r.Context()))
	err := ctrl.Open(commandContext(r))
	h.render(w, r, ctrl, err)
}

func (h *Handler) table(w http.ResponseWriter, r *http.Request) {
	ctrl := h.current(r)
	q := r.URL.Query()
	filter := Filter{Search: q.Get("search"), Status: q.Get("status"), Role: q.Get("role")}

	if q.Get("trigger") != "search" {
		h.fragment(w, ctrl.ApplyFilter(filter))
		return
	}

	// The dropdowns travel with every keystroke; a rebuilt controller has
	// no record of them.
	ctrl.SetStatusFilter(filter.Status)
	ctrl.SetRoleFilter(filter.Role)
	renders, cancel := ctrl.Subscribe()
	defer cancel()
	ctrl.SearchInput(filter.Search)

	wait := time.NewTimer(h.searchWait)
	defer wait.Stop()
	table := ctrl.Table()
	select {
	case next, ok := <-renders:
		if ok {
			table = next
		}
	case <-wait.C:
	case <-r.Context().Done():
		return
	}
	h.fragment(w, table)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctrl := h.current(r)
	form := CreateForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		IsAdmin:  checked(r, "is_admin"),
		IsActive: checked(r, "is_active"),
		GroupIDs: r.PostForm["group_ids"],
	}
	h.render(w, r, ctrl, ctrl.Create(commandContext(r), form))
}

func (h *Handler) openModal(w http.ResponseWriter, r *http.Request) {
	ctrl := h.current(r)
	if chi.URLParam(r, "modal") != ModalAddUser {
		http.NotFound(w, r)
		return
	}
	ctrl.OpenCreate()
	h.render(w, r, ctrl, nil)
}

func (h *Handler) closeModal(w http.ResponseWriter, r *http.Request) {
	ctrl := h.current(r)
	ctrl.CloseModal(chi.URLParam(r, "modal"))
	h.render(w, r, ctrl, nil)
}

func (h *Handler) openEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	ctrl.OpenEdit(id)
	h.render(w, r, ctrl, nil)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctrl := h.current(r)
	form := EditForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		IsAdmin:  checked(r, "is_admin"),
		IsActive: checked(r, "is_active"),
		GroupIDs: r.PostForm["group_ids"],
	}
	h.render(w, r, ctrl, ctrl.Update(commandContext(r), id, form))
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	h.render(w, r, ctrl, ctrl.ToggleUserStatus(commandContext(r), id, r.PostFormValue("activate") == "true"))
}

func (h *Handler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	h.render(w, r, ctrl, ctrl.ToggleAdmin(commandContext(r), id, r.PostFormValue("admin") == "true"))
}

func (h *Handler) openPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	ctrl.OpenResetPassword(id)
	h.render(w, r, ctrl, nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	form := PasswordForm{
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	h.render(w, r, ctrl, ctrl.ResetPassword(commandContext(r), id, form))
}

func (h *Handler) openDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	ctrl.OpenDelete(id)
	h.render(w, r, ctrl, nil)
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctrl := h.current(r)
	h.render(w, r, ctrl, ctrl.ConfirmDelete(commandContext(r), id))
}

// current returns the session's controller. One rebuilt after its workspace
// expired has never fetched anything, so it is opened before serving.
func (h *Handler) current(r *http.Request) *Controller {
	ctrl := h.workspaces.Users(shared.SessionID(r.Context()))
	if ctrl.State() == StateIdle {
		if err := ctrl.Open(commandContext(r)); err != nil {
			h.logger.Warn("reopen users workspace", slog.String("path", r.URL.Path), slog.Any("error", err))
		}
	}
	return ctrl
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, ctrl *Controller, cmdErr error) {
	status := httpx.StatusFor(cmdErr)
	if status == http.StatusInternalServerError {
		h.logger.Error("users command failed", slog.String("path", r.URL.Path), slog.Any("error", cmdErr))
	}
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), shared.SessionFromContext(r.Context()))
	data := view.NewTemplateData(r, "Usuários", csrfToken, ctrl.Page().Alerts.Alerts(), ctrl.View())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/users.html", data); err != nil {
		h.logger.Error("render users", slog.Any("error", err))
	}
}

func (h *Handler) fragment(w http.ResponseWriter, table TableView) {
	if err := h.templates.RenderFragment(w, "fragments/users_table.html", table); err != nil {
		h.logger.Error("render users table", slog.Any("error", err))
	}
}

// commandContext detaches backend calls from the browser connection: issued
// requests are never cancelled, but forwarded values are kept.
func commandContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func checked(r *http.Request, field string) bool {
	switch r.PostFormValue(field) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
