package groups

import (
	"fmt"
	"strconv"
	"time"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
	"github.com/odyssey-erp/admin-console/internal/ui"
)

// Columns is the width of the groups table.
const Columns = 6

const (
	// EmptyMessage fills the single row of an empty table.
	EmptyMessage = "Nenhum grupo encontrado"
	// NoDescription replaces a blank description.
	NoDescription = "Sem descrição"
	// NoMembersMessage is shown for a group without members.
	NoMembersMessage = "Este grupo ainda não possui membros."
)

// Row is one rendered group.
type Row struct {
	ID          int64
	Name        string
	Description string
	HasDesc     bool
	Members     string
	Created     string
	EditHref    string
	MembersHref string
	DeleteHref  string
}

// TableView is the rendered groups table.
type TableView struct {
	Rows         []Row
	Columns      int
	EmptyMessage string
}

// Empty reports whether the table shows the "no records" row.
func (v TableView) Empty() bool {
	return len(v.Rows) == 0
}

// RenderGroups maps groups to their table view without touching any state.
func RenderGroups(groups []apiclient.Group, loc *time.Location) TableView {
	view := TableView{Columns: Columns, EmptyMessage: EmptyMessage, Rows: make([]Row, 0, len(groups))}
	for _, g := range groups {
		base := fmt.Sprintf("/groups/%d", g.ID)
		row := Row{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			HasDesc:     g.Description != "",
			Members:     fmt.Sprintf("%d usuário(s)", g.UserCount),
			Created:     ui.FormatDate(g.CreatedAt.Time, loc),
			EditHref:    base + "/edit",
			MembersHref: base + "/members",
			DeleteHref:  base + "/delete",
		}
		if !row.HasDesc {
			row.Description = NoDescription
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// Badge is a labelled pill.
type Badge struct {
	Label string
	Class string
}

// MemberRow is one entry of the members list.
type MemberRow struct {
	ID         int64
	Username   string
	Email      string
	Status     Badge
	Admin      bool
	RemoveHref string
}

// Option is one entry of the add member dropdown.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// MembersView is the membership dialog of one group.
type MembersView struct {
	GroupID      int64
	Title        string
	Loading      bool
	Error        string
	Members      []MemberRow
	Options      []Option
	Selected     string
	EmptyMessage string
	AddHref      string
	RemovePrompt string
}

// Empty reports whether the loaded member list has no entries.
func (v MembersView) Empty() bool {
	return !v.Loading && v.Error == "" && len(v.Members) == 0
}

// RenderMembers maps the members of groupID to list rows.
func RenderMembers(groupID int64, users []apiclient.User) []MemberRow {
	rows := make([]MemberRow, 0, len(users))
	for _, u := range users {
		status := Badge{Label: "Inativo", Class: "bg-danger"}
		if u.IsActive {
			status = Badge{Label: "Ativo", Class: "bg-success"}
		}
		rows = append(rows, MemberRow{
			ID:         u.ID,
			Username:   u.Username,
			Email:      u.Email,
			Status:     status,
			Admin:      u.IsAdmin,
			RemoveHref: fmt.Sprintf("/groups/%d/members/%d/remove", groupID, u.ID),
		})
	}
	return rows
}

// UserOptions lists every user as "username (email)". Current members are
// not excluded.
func UserOptions(users []apiclient.User, selected string) []Option {
	out := make([]Option, 0, len(users))
	for _, u := range users {
		value := strconv.FormatInt(u.ID, 10)
		out = append(out, Option{
			Value:    value,
			Label:    fmt.Sprintf("%s (%s)", u.Username, u.Email),
			Selected: value == selected,
		})
	}
	return out
}

// PageView is everything the groups page template needs.
type PageView struct {
	State        State
	Loading      bool
	Search       string
	Table        TableView
	AddForm      GroupForm
	EditForm     GroupForm
	DeleteID     int64
	DeleteTarget string
	Members      MembersView
	OpenModal    string
}
