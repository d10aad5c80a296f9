package groups

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

// Workspaces resolves the groups controller owned by a browser session.
type Workspaces interface {
	// OpenGroups tears down the session's previous groups page and starts a fresh one.
	OpenGroups(sessionID string) *Controller
	// Groups returns the session's current groups page, starting one if needed.
	Groups(sessionID string) *Controller
}

// DefaultSearchWait bounds how long a live search request waits for the
// debounced render.
const DefaultSearchWait = 2 * time.Second

// ConfirmedField carries the browser's answer to RemovePrompt.
const ConfirmedField = "confirmed"

// Handler manages group management endpoints.
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

// MountRoutes registers group routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showPage)
	r.Get("/table", h.table)
	r.Post("/", h.create)
	r.Get("/modals/{modal}", h.openModal)
	r.Post("/modals/{modal}/close", h.closeModal)
	r.Route("/{id}", func(r chi.Router) {
		r.Post("/", h.update)
		r.Get("/edit", h.openEdit)
		r.Get("/delete", h.openDelete)
		r.Post("/delete", h.confirmDelete)
		r.Get("/members", h.viewMembers)
		r.Post("/members", h.addMember)
		r.Post("/members/{userID}/remove", h.removeMember)
	})
}

func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	ctrl := h.workspaces.OpenGroups(shared.SessionID(r.Context()))
	h.render(w, r, ctrl, ctrl.Open(commandContext(r)))
}

func (h *Handler) table(w http.ResponseWriter, r *http.Request) {
	ctrl := h.current(r)
	term := r.URL.Query().Get("search")
	if r.URL.Query().Get("trigger") != "search" {
		h.fragment(w, ctrl.ApplySearch(term))
		return
	}

	renders, cancel := ctrl.Subscribe()
	defer cancel()
	ctrl.SearchInput(term)

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
	ctrl := h.current(r)
	form := GroupForm{Name: r.PostFormValue("name"), Description: r.PostFormValue("description")}
	h.render(w, r, ctrl, ctrl.Create(commandContext(r), form))
}

func (h *Handler) openModal(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "modal") != ModalAddGroup {
		http.NotFound(w, r)
		return
	}
	ctrl := h.current(r)
	ctrl.OpenCreate()
	h.render(w, r, ctrl, nil)
}

func (h *Handler) closeModal(w http.ResponseWriter, r *http.Request) {
	ctrl := h.current(r)
	ctrl.CloseModal(chi.URLParam(r, "modal"))
	h.render(w, r, ctrl, nil)
}

func (h *Handler) openEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	ctrl := h.current(r)
	ctrl.OpenEdit(id)
	h.render(w, r, ctrl, nil)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	ctrl := h.current(r)
	form := GroupForm{Name: r.PostFormValue("name"), Description: r.PostFormValue("description")}
	h.render(w, r, ctrl, ctrl.Update(commandContext(r), id, form))
}

func (h *Handler) openDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	ctrl := h.current(r)
	ctrl.OpenDelete(id)
	h.render(w, r, ctrl, nil)
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	ctrl := h.current(r)
	h.render(w, r, ctrl, ctrl.ConfirmDelete(commandContext(r), id))
}

func (h *Handler) viewMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	ctrl := h.current(r)
	h.render(w, r, ctrl, ctrl.ViewMembers(commandContext(r), id))
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	ctrl := h.current(r)
	h.render(w, r, ctrl, ctrl.AddMember(commandContext(r), id, r.PostFormValue("user_id")))
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}
	ctrl := h.current(r)
	confirmed := func(string) bool { return r.PostFormValue(ConfirmedField) == "yes" }
	h.render(w, r, ctrl, ctrl.RemoveMember(commandContext(r), userID, groupID, confirmed))
}

// current returns the session's controller, opening it first when it was
// rebuilt after its workspace expired.
func (h *Handler) current(r *http.Request) *Controller {
	ctrl := h.workspaces.Groups(shared.SessionID(r.Context()))
	if ctrl.State() == StateIdle {
		if err := ctrl.Open(commandContext(r)); err != nil {
			h.logger.Warn("reopen groups workspace", slog.String("path", r.URL.Path), slog.Any("error", err))
		}
	}
	return ctrl
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, ctrl *Controller, cmdErr error) {
	status := httpx.StatusFor(cmdErr)
	if status == http.StatusInternalServerError {
		h.logger.Error("groups command failed", slog.String("path", r.URL.Path), slog.Any("error", cmdErr))
	}
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), shared.SessionFromContext(r.Context()))
	data := view.NewTemplateData(r, "Grupos", csrfToken, ctrl.Page().Alerts.Alerts(), ctrl.View())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/groups.html", data); err != nil {
		h.logger.Error("render groups", slog.Any("error", err))
	}
}

func (h *Handler) fragment(w http.ResponseWriter, table TableView) {
	if err := h.templates.RenderFragment(w, "fragments/groups_table.html", table); err != nil {
		h.logger.Error("render groups table", slog.Any("error", err))
	}
}

func commandContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
