package view

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/odyssey-erp/admin-console/internal/ui"
	"github.com/odyssey-erp/admin-console/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Alerts      []ui.Alert
	Theme       ui.Theme
	CurrentPath string
	Nav         []NavLink
	Data        any
}

// ModalFrame is the chrome around a server-rendered dialog.
type ModalFrame struct {
	ID        string
	Title     string
	CloseHref string
	CSRFToken string
	Large     bool
}

func modalFrame(id, title, closeHref, csrfToken string, large ...bool) ModalFrame {
	return ModalFrame{
		ID:        id,
		Title:     title,
		CloseHref: closeHref,
		CSRFToken: csrfToken,
		Large:     len(large) > 0 && large[0],
	}
}

// NavLink is one entry of the top navigation bar.
type NavLink struct {
	Href   string
	Label  string
	Icon   string
	Active bool
}

var navigation = []NavLink{
	{Href: "/", Label: "Início", Icon: "bi-house"},
	{Href: "/users", Label: "Usuários", Icon: "bi-people"},
	{Href: "/groups", Label: "Grupos", Icon: "bi-collection"},
}

// Navigation marks the link owning path as active.
func Navigation(path string) []NavLink {
	links := make([]NavLink, len(navigation))
	copy(links, navigation)
	for i := range links {
		if links[i].Href == "/" {
			links[i].Active = path == "/"
			continue
		}
		links[i].Active = path == links[i].Href || strings.HasPrefix(path, links[i].Href+"/")
	}
	return links
}

// NewTemplateData fills the per-request fields of TemplateData.
func NewTemplateData(r *http.Request, title, csrfToken string, alerts []ui.Alert, data any) TemplateData {
	return TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Alerts:      alerts,
		Theme:       ui.NewCookieThemeStore(nil, r, false).Load(),
		CurrentPath: r.URL.Path,
		Nav:         Navigation(r.URL.Path),
		Data:        data,
	}
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return ui.FormatDate(t, time.Local)
		},
		"formatBool": ui.FormatBoolean,
		"join":       strings.Join,
		"modal":      modalFrame,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
		"templates/fragments/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}

// RenderFragment executes a partial template with a bare view-model.
func (e *Engine) RenderFragment(w http.ResponseWriter, name string, data any) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
