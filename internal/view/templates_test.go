package view

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/ui"
)

func TestNewEngineParsesEveryPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err, "templates should parse without error")

	for _, name := range []string{
		"pages/dashboard.html",
		"pages/users.html",
		"pages/groups.html",
		"fragments/users_table.html",
		"fragments/groups_table.html",
	} {
		assert.NotNil(t, engine.templates.Lookup(name), name)
	}
}

func TestNavigationMarksActiveLink(t *testing.T) {
	active := func(path string) []string {
		var out []string
		for _, l := range Navigation(path) {
			if l.Active {
				out = append(out, l.Href)
			}
		}
		return out
	}

	assert.Equal(t, []string{"/"}, active("/"))
	assert.Equal(t, []string{"/users"}, active("/users"))
	assert.Equal(t, []string{"/users"}, active("/users/3/edit"))
	assert.Equal(t, []string{"/groups"}, active("/groups/table"))
	assert.Nil(t, active("/usersx"))
	assert.False(t, navigation[1].Active, "package navigation must not be mutated")
}

func TestNewTemplateDataReadsThemeCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	req.AddCookie(&http.Cookie{Name: ui.ThemeKey, Value: "dark"})

	data := NewTemplateData(req, "Grupos", "tok", nil, 42)

	assert.Equal(t, ui.ThemeDark, data.Theme)
	assert.Equal(t, "/groups", data.CurrentPath)
	assert.Equal(t, "tok", data.CSRFToken)
	assert.Equal(t, 42, data.Data)
}

func TestRenderAlertsAndTheme(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	alerts := []ui.Alert{{ID: "alert-1", Message: "Salvo!", Severity: ui.SeveritySuccess, Duration: 5 * time.Second}}
	rr := httptest.NewRecorder()
	require.NoError(t, engine.Render(rr, "pages/dashboard.html", NewTemplateData(req, "Início", "tok", alerts, struct {
		Stats struct{ Users, Groups, ActiveUsers, Admins int }
		Error string
	}{})))

	body := rr.Body.String()
	assert.Contains(t, body, `data-bs-theme="light"`)
	assert.Contains(t, body, `<meta name="csrf-token" content="tok">`)
	assert.Contains(t, body, `class="alert alert-success alert-dismissible d-flex align-items-center"`)
	assert.Contains(t, body, `data-duration="5000"`)
	assert.Contains(t, body, "Salvo!")
}

func TestModalFrame(t *testing.T) {
	assert.Equal(t, ModalFrame{ID: "m", Title: "T", CloseHref: "/x", CSRFToken: "c"}, modalFrame("m", "T", "/x", "c"))
	assert.True(t, modalFrame("m", "T", "/x", "c", true).Large)
}

func TestNilEngine(t *testing.T) {
	var engine *Engine
	assert.Error(t, engine.Render(httptest.NewRecorder(), "pages/users.html", TemplateData{}))
	assert.Error(t, engine.RenderFragment(httptest.NewRecorder(), "fragments/users_table.html", nil))
}
