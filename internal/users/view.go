package users

import (
	"fmt"
	"strconv"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

// Columns is the width of the users table.
const Columns = 7

// EmptyMessage fills the single row of an empty table.
const EmptyMessage = "Nenhum usuário encontrado"

// Badge is a labelled pill.
type Badge struct {
	Label string
	Class string
}

// Action is one row button. Post actions submit Field=Value to Href.
type Action struct {
	Title string
	Icon  string
	Class string
	Href  string
	Post  bool
	Field string
	Value string
}

// Row is one rendered user.
type Row struct {
	ID       int64
	Username string
	Email    string
	Groups   []string
	Status   Badge
	Role     Badge
	Actions  []Action
}

// TableView is the rendered users table.
type TableView struct {
	Rows         []Row
	Columns      int
	EmptyMessage string
}

// Empty reports whether the table shows the "no records" row.
func (v TableView) Empty() bool {
	return len(v.Rows) == 0
}

// RenderUsers maps users to their table view without touching any state.
func RenderUsers(users []apiclient.User) TableView {
	view := TableView{Columns: Columns, EmptyMessage: EmptyMessage, Rows: make([]Row, 0, len(users))}
	for _, u := range users {
		groups := make([]string, 0, len(u.Groups))
		for _, g := range u.Groups {
			groups = append(groups, g.Name)
		}
		view.Rows = append(view.Rows, Row{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Groups:   groups,
			Status:   statusBadge(u.IsActive),
			Role:     roleBadge(u.IsAdmin),
			Actions:  rowActions(u),
		})
	}
	return view
}

func statusBadge(active bool) Badge {
	if active {
		return Badge{Label: "Ativo", Class: "bg-success"}
	}
	return Badge{Label: "Inativo", Class: "bg-danger"}
}

func roleBadge(admin bool) Badge {
	if admin {
		return Badge{Label: "Admin", Class: "bg-primary"}
	}
	return Badge{Label: "Regular", Class: "bg-secondary"}
}

func rowActions(u apiclient.User) []Action {
	base := fmt.Sprintf("/users/%d", u.ID)
	actions := []Action{
		{Title: "Editar", Icon: "bi-pencil", Class: "btn-outline-primary", Href: base + "/edit"},
		{Title: "Resetar Senha", Icon: "bi-key", Class: "btn-outline-warning", Href: base + "/password"},
	}
	if u.IsActive {
		actions = append(actions, Action{Title: "Inativar", Icon: "bi-toggle-off", Class: "btn-outline-secondary", Href: base + "/status", Post: true, Field: "activate", Value: "false"})
	} else {
		actions = append(actions, Action{Title: "Ativar", Icon: "bi-toggle-on", Class: "btn-outline-success", Href: base + "/status", Post: true, Field: "activate", Value: "true"})
	}
	if u.IsAdmin {
		actions = append(actions, Action{Title: "Remover Admin", Icon: "bi-shield-fill-x", Class: "btn-outline-dark", Href: base + "/admin", Post: true, Field: "admin", Value: "false"})
	} else {
		actions = append(actions, Action{Title: "Tornar Admin", Icon: "bi-shield-fill-check", Class: "btn-outline-info", Href: base + "/admin", Post: true, Field: "admin", Value: "true"})
	}
	return append(actions, Action{Title: "Deletar", Icon: "bi-trash", Class: "btn-outline-danger", Href: base + "/delete"})
}

// Option is one entry of a group multi-select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// GroupOptions renders groups as select options, marking the selected ids.
func GroupOptions(groups []apiclient.Group, selected []string) []Option {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	out := make([]Option, 0, len(groups))
	for _, g := range groups {
		value := strconv.FormatInt(g.ID, 10)
		out = append(out, Option{Value: value, Label: g.Name, Selected: chosen[value]})
	}
	return out
}

// PageView is everything the users page template needs.
type PageView struct {
	State         State
	Loading       bool
	Filter        Filter
	Table         TableView
	AddForm       CreateForm
	EditForm      EditForm
	PasswordForm  PasswordForm
	DeleteID      int64
	DeleteTarget  string
	AddGroupOpts  []Option
	EditGroupOpts []Option
	OpenModal     string
	StatusFilters []Option
	RoleFilters   []Option
}

func filterOptions(current string, pairs ...[2]string) []Option {
	out := []Option{{Value: "", Label: "Todos", Selected: current == ""}}
	for _, p := range pairs {
		out = append(out, Option{Value: p[0], Label: p[1], Selected: current == p[0]})
	}
	return out
}
