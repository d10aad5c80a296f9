package groups

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/ui"
)

// DefaultSearchDelay is the debounce window of the search box.
const DefaultSearchDelay = 300 * time.Millisecond

// Config tunes a Controller. Zero values pick the defaults.
type Config struct {
	SearchDelay time.Duration
	Schedule    ui.Scheduler
	Location    *time.Location
}

// Controller owns the groups snapshot and the membership dialog of one
// console page. The mutex guards state only and is never held across a
// backend call.
type Controller struct {
	backend   Backend
	page      *ui.Page
	logger    *slog.Logger
	validator *validator.Validate
	location  *time.Location
	search    *ui.Debouncer[string]
	unhooks   []func()

	mu          sync.Mutex
	state       State
	groups      []apiclient.Group
	term        string
	table       TableView
	addForm     GroupForm
	editForm    GroupForm
	deleteID    int64
	deleteName  string
	members     MembersView
	subscribers map[int]chan TableView
	nextSub     int
	closed      bool
}

// NewController wires a Controller to its page. Modal hidden listeners are
// registered here and removed by Close.
func NewController(backend Backend, page *ui.Page, logger *slog.Logger, cfg Config) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SearchDelay <= 0 {
		cfg.SearchDelay = DefaultSearchDelay
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	c := &Controller{
		backend:     backend,
		page:        page,
		logger:      logger.With(slog.String("component", "groups")),
		validator:   validator.New(),
		location:    cfg.Location,
		table:       RenderGroups(nil, cfg.Location),
		subscribers: make(map[int]chan TableView),
	}
	c.search = ui.DebounceWith(c.applySearch, cfg.SearchDelay, cfg.Schedule)
	c.unhooks = []func(){
		page.Modals.OnHidden(ModalAddGroup, func() { c.resetForm(ModalAddGroup) }),
		page.Modals.OnHidden(ModalEditGroup, func() { c.resetForm(ModalEditGroup) }),
		page.Modals.OnHidden(ModalMembers, func() { c.resetForm(ModalMembers) }),
	}
	return c
}

// Open performs the page-load sequence.
func (c *Controller) Open(ctx context.Context) error {
	if c.isClosed() {
		return shared.ErrWorkspaceClosed
	}
	return c.Load(ctx)
}

// Load refetches the groups snapshot and re-renders the table with the active
// search. On failure the previous table stays in place.
func (c *Controller) Load(ctx context.Context) error {
	c.page.Loading.Show(RegionGroups)
	defer c.page.Loading.Hide(RegionGroups)

	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	groups, err := c.backend.ListGroups(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateErrored
		c.mu.Unlock()
		c.fail("load", "Erro ao carregar grupos: ", err)
		return fmt.Errorf("load groups: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = groups
	c.state = StateLoaded
	c.renderLocked()
	return nil
}

// SearchInput feeds one keystroke to the debounced search.
func (c *Controller) SearchInput(term string) {
	c.search.Call(term)
}

func (c *Controller) applySearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.term = term
	c.renderLocked()
}

// ApplySearch filters immediately, bypassing the debounce window.
func (c *Controller) ApplySearch(term string) TableView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.term = term
	c.renderLocked()
	return c.table
}

// Subscribe returns a channel receiving every table render. Slow readers only
// see the latest render. The returned func stops the subscription.
func (c *Controller) Subscribe() (<-chan TableView, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan TableView, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.nextSub++
	id := c.nextSub
	c.subscribers[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(sub)
		}
	}
}

// OpenCreate shows the add group dialog with a blank form.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	c.addForm = GroupForm{}
	c.mu.Unlock()
	c.page.Modals.Open(ModalAddGroup)
}

// Create validates form, posts it and reloads the table.
func (c *Controller) Create(ctx context.Context, form GroupForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	c.mu.Lock()
	c.addForm = form
	c.mu.Unlock()
	c.page.Modals.Open(ModalAddGroup)

	if err := c.validator.Struct(form); err != nil {
		return c.invalid(msgNameRequired)
	}
	payload := apiclient.GroupRequest{Name: form.Name, Description: form.Description}
	if _, err := c.backend.CreateGroup(ctx, payload); err != nil {
		c.fail("create", "Erro ao criar grupo: ", err)
		return fmt.Errorf("create group: %w", err)
	}
	c.page.Alerts.ShowSuccess("Grupo criado com sucesso!")
	c.page.Modals.Close(ModalAddGroup)
	return c.Load(ctx)
}

// OpenEdit prefills the edit dialog from the snapshot. Unknown ids are ignored.
func (c *Controller) OpenEdit(id int64) {
	c.mu.Lock()
	group, ok := c.findLocked(id)
	if ok {
		c.editForm = GroupForm{ID: strconv.FormatInt(group.ID, 10), Name: group.Name, Description: group.Description}
	}
	c.mu.Unlock()
	if ok {
		c.page.Modals.Open(ModalEditGroup)
	}
}

// Update validates form, puts it and reloads the table.
func (c *Controller) Update(ctx context.Context, id int64, form GroupForm) error {
	form.ID = strconv.FormatInt(id, 10)
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	c.mu.Lock()
	c.editForm = form
	c.mu.Unlock()
	c.page.Modals.Open(ModalEditGroup)

	if err := c.validator.Struct(form); err != nil {
		return c.invalid(msgNameRequired)
	}
	payload := apiclient.GroupRequest{Name: form.Name, Description: form.Description}
	if _, err := c.backend.UpdateGroup(ctx, id, payload); err != nil {
		c.fail("update", "Erro ao atualizar grupo: ", err)
		return fmt.Errorf("update group %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Grupo atualizado com sucesso!")
	c.page.Modals.Close(ModalEditGroup)
	return c.Load(ctx)
}

// OpenDelete shows the delete confirmation dialog for id.
func (c *Controller) OpenDelete(id int64) {
	c.mu.Lock()
	c.deleteID = id
	c.deleteName = ""
	if group, ok := c.findLocked(id); ok {
		c.deleteName = group.Name
	}
	c.mu.Unlock()
	c.page.Modals.Open(ModalDeleteGroup)
}

// ConfirmDelete deletes the group and reloads the table. A failure leaves
// the dialog open.
func (c *Controller) ConfirmDelete(ctx context.Context, id int64) error {
	c.OpenDelete(id)
	if err := c.backend.DeleteGroup(ctx, id); err != nil {
		c.fail("delete", "Erro ao deletar grupo: ", err)
		return fmt.Errorf("delete group %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Grupo deletado com sucesso!")
	c.page.Modals.Close(ModalDeleteGroup)
	return c.Load(ctx)
}

// ViewMembers opens the membership dialog of groupID and loads the user
// dropdown and the member list concurrently. Unknown ids are ignored.
func (c *Controller) ViewMembers(ctx context.Context, groupID int64) error {
	c.mu.Lock()
	group, ok := c.findLocked(groupID)
	if ok {
		c.members = MembersView{
			GroupID:      groupID,
			Title:        "Membros do Grupo: " + group.Name,
			Loading:      true,
			EmptyMessage: NoMembersMessage,
			AddHref:      fmt.Sprintf("/groups/%d/members", groupID),
			RemovePrompt: RemovePrompt,
		}
	}
	c.mu.Unlock()
	if !ok {
		return nil
	}
	c.page.Modals.Open(ModalMembers)

	var g errgroup.Group
	g.Go(func() error { return c.loadUserOptions(ctx, groupID) })
	g.Go(func() error { return c.loadMembers(ctx, groupID) })
	return g.Wait()
}

// AddMember attaches the selected user to groupID, then refreshes the member
// list and the groups table.
func (c *Controller) AddMember(ctx context.Context, groupID int64, selection string) error {
	c.mu.Lock()
	if c.members.GroupID == groupID {
		c.members.Selected = selection
	}
	c.mu.Unlock()

	userID, err := strconv.ParseInt(strings.TrimSpace(selection), 10, 64)
	if err != nil || userID <= 0 {
		return c.invalid(msgSelectUser)
	}
	if _, err := c.backend.AddUserToGroups(ctx, userID, []int64{groupID}); err != nil {
		c.fail("add member", "Erro ao adicionar usuário: ", err)
		return fmt.Errorf("add user %d to group %d: %w", userID, groupID, err)
	}
	c.page.Alerts.ShowSuccess("Usuário adicionado ao grupo com sucesso!")

	c.mu.Lock()
	if c.members.GroupID == groupID {
		c.members.Selected = ""
		c.members.Options = resetSelection(c.members.Options)
	}
	c.mu.Unlock()
	return c.refreshAfterMembership(ctx, groupID)
}

// RemoveMember detaches userID from groupID once confirm accepts
// RemovePrompt. A declined prompt issues no call.
func (c *Controller) RemoveMember(ctx context.Context, userID, groupID int64, confirm Confirmer) error {
	if confirm == nil || !confirm(RemovePrompt) {
		return nil
	}
	if _, err := c.backend.RemoveUserFromGroup(ctx, userID, groupID); err != nil {
		c.fail("remove member", "Erro ao remover usuário: ", err)
		return fmt.Errorf("remove user %d from group %d: %w", userID, groupID, err)
	}
	c.page.Alerts.ShowSuccess("Usuário removido do grupo com sucesso!")
	return c.refreshAfterMembership(ctx, groupID)
}

func (c *Controller) refreshAfterMembership(ctx context.Context, groupID int64) error {
	// the inline member error is rendered in the dialog, not returned
	_ = c.loadMembers(ctx, groupID)
	return c.Load(ctx)
}

func (c *Controller) loadUserOptions(ctx context.Context, groupID int64) error {
	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		c.logger.Warn("backend call failed", slog.String("command", "load users"), slog.Any("error", err))
		c.page.Alerts.ShowError(msgUsersListError)
		return fmt.Errorf("load user options: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.members.GroupID == groupID {
		c.members.Options = UserOptions(users, c.members.Selected)
	}
	return nil
}

func (c *Controller) loadMembers(ctx context.Context, groupID int64) error {
	users, err := c.backend.ListGroupUsers(ctx, groupID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.members.GroupID != groupID {
		return nil
	}
	c.members.Loading = false
	if err != nil {
		c.logger.Warn("backend call failed", slog.String("command", "load members"), slog.Any("error", err))
		c.members.Error = "Erro ao carregar usuários: " + apiclient.Message(err)
		c.members.Members = nil
		return fmt.Errorf("load members of group %d: %w", groupID, err)
	}
	c.members.Error = ""
	c.members.Members = RenderMembers(groupID, users)
	return nil
}

// CloseModal hides one of the groups dialogs.
func (c *Controller) CloseModal(id string) {
	c.page.Modals.Close(id)
}

// Page returns the UI surface the controller renders into.
func (c *Controller) Page() *ui.Page {
	return c.page
}

// State reports where the snapshot is in its lifecycle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the last loaded groups.
func (c *Controller) Snapshot() []apiclient.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]apiclient.Group(nil), c.groups...)
}

// Table returns the current table render.
func (c *Controller) Table() TableView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

// Members returns the membership dialog view.
func (c *Controller) Members() MembersView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.members
}

// View assembles the page view-model.
func (c *Controller) View() PageView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := PageView{
		State:        c.state,
		Loading:      c.page.Loading.Visible(RegionGroups),
		Search:       c.term,
		Table:        c.table,
		AddForm:      c.addForm,
		EditForm:     c.editForm,
		DeleteID:     c.deleteID,
		DeleteTarget: c.deleteName,
		Members:      c.members,
	}
	for _, id := range []string{ModalAddGroup, ModalEditGroup, ModalDeleteGroup, ModalMembers} {
		if c.page.Modals.IsOpen(id) {
			v.OpenModal = id
			break
		}
	}
	return v
}

// Close tears the controller down: the pending search is cancelled, modal
// listeners are removed and every subscription channel is closed.
func (c *Controller) Close() {
	c.search.Stop()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
	unhooks := c.unhooks
	c.unhooks = nil
	c.mu.Unlock()

	for _, unhook := range unhooks {
		unhook()
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) resetForm(modal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch modal {
	case ModalAddGroup:
		c.addForm = GroupForm{}
	case ModalEditGroup:
		c.editForm = GroupForm{}
	case ModalMembers:
		c.members = MembersView{}
	}
}

func (c *Controller) renderLocked() {
	c.table = RenderGroups(FilterGroups(c.groups, c.term), c.location)
	for _, ch := range c.subscribers {
		select {
		case ch <- c.table:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c.table:
			default:
			}
		}
	}
}

func (c *Controller) findLocked(id int64) (apiclient.Group, bool) {
	for _, g := range c.groups {
		if g.ID == id {
			return g, true
		}
	}
	return apiclient.Group{}, false
}

func (c *Controller) invalid(message string) error {
	c.page.Alerts.ShowError(message)
	return shared.NewValidationError(message)
}

func (c *Controller) fail(command, prefix string, err error) {
	c.logger.Warn("backend call failed", slog.String("command", command), slog.Any("error", err))
	c.page.Alerts.ShowError(prefix + apiclient.Message(err))
}

func resetSelection(options []Option) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		o.Selected = false
		out[i] = o
	}
	return out
}
