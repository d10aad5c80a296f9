package users

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
}

// Controller owns the users snapshot of one console page and runs every
// command issued against it. The mutex guards state only and is never held
// across a backend call.
type Controller struct {
	backend   Backend
	page      *ui.Page
	logger    *slog.Logger
	validator *validator.Validate
	search    *ui.Debouncer[string]
	unhooks   []func()

	mu           sync.Mutex
	state        State
	users        []apiclient.User
	groups       []apiclient.Group
	filter       Filter
	table        TableView
	addForm      CreateForm
	editForm     EditForm
	passwordForm PasswordForm
	deleteID     int64
	deleteName   string
	subscribers  map[int]chan TableView
	nextSub      int
	closed       bool
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
	c := &Controller{
		backend:     backend,
		page:        page,
		logger:      logger.With(slog.String("component", "users")),
		validator:   validator.New(),
		addForm:     blankCreateForm(),
		table:       RenderUsers(nil),
		subscribers: make(map[int]chan TableView),
	}
	c.search = ui.DebounceWith(c.applySearch, cfg.SearchDelay, cfg.Schedule)
	c.unhooks = []func(){
		page.Modals.OnHidden(ModalAddUser, func() { c.resetForms(ModalAddUser) }),
		page.Modals.OnHidden(ModalEditUser, func() { c.resetForms(ModalEditUser) }),
		page.Modals.OnHidden(ModalResetPassword, func() { c.resetForms(ModalResetPassword) }),
	}
	return c
}

// Open performs the page-load sequence: users and group options are fetched
// concurrently. Both always run; the first failure is returned.
func (c *Controller) Open(ctx context.Context) error {
	if c.isClosed() {
		return shared.ErrWorkspaceClosed
	}
	var g errgroup.Group
	g.Go(func() error { return c.Load(ctx) })
	g.Go(func() error { return c.LoadGroupOptions(ctx) })
	return g.Wait()
}

// Load refetches the users snapshot and re-renders the table with the active
// filter. On failure the previous table stays in place.
func (c *Controller) Load(ctx context.Context) error {
	c.page.Loading.Show(RegionUsers)
	defer c.page.Loading.Hide(RegionUsers)

	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateErrored
		c.mu.Unlock()
		c.fail("load", "Erro ao carregar usuários: ", err)
		return fmt.Errorf("load users: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = users
	c.state = StateLoaded
	c.renderLocked()
	return nil
}

// LoadGroupOptions refreshes the groups offered by the add and edit forms.
func (c *Controller) LoadGroupOptions(ctx context.Context) error {
	groups, err := c.backend.ListGroups(ctx)
	if err != nil {
		c.fail("load groups", "Erro ao carregar grupos: ", err)
		return fmt.Errorf("load group options: %w", err)
	}
	c.mu.Lock()
	c.groups = groups
	c.mu.Unlock()
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
	c.filter.Search = term
	c.renderLocked()
}

// SetStatusFilter applies the status dropdown immediately.
func (c *Controller) SetStatusFilter(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Status = status
	c.renderLocked()
}

// SetRoleFilter applies the role dropdown immediately.
func (c *Controller) SetRoleFilter(role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Role = role
	c.renderLocked()
}

// ApplyFilter replaces the whole filter and re-renders without waiting.
func (c *Controller) ApplyFilter(f Filter) TableView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
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

// OpenCreate shows the add user dialog with a blank form.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	c.addForm = blankCreateForm()
	c.mu.Unlock()
	c.page.Modals.Open(ModalAddUser)
}

// Create validates form, posts it and reloads the table.
func (c *Controller) Create(ctx context.Context, form CreateForm) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	c.mu.Lock()
	c.addForm = form
	c.mu.Unlock()
	c.page.Modals.Open(ModalAddUser)

	if err := c.validator.Struct(form); err != nil {
		return c.invalid(msgRequiredFields)
	}

	payload := apiclient.CreateUserRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		IsAdmin:  form.IsAdmin,
		IsActive: form.IsActive,
		GroupIDs: parseGroupIDs(form.GroupIDs),
	}
	if _, err := c.backend.CreateUser(ctx, payload); err != nil {
		c.fail("create", "Erro ao criar usuário: ", err)
		return fmt.Errorf("create user: %w", err)
	}
	c.page.Alerts.ShowSuccess("Usuário criado com sucesso!")
	c.page.Modals.Close(ModalAddUser)
	return c.Load(ctx)
}

// OpenEdit prefills the edit dialog from the snapshot. Unknown ids are ignored.
func (c *Controller) OpenEdit(id int64) {
	c.mu.Lock()
	user, ok := c.findLocked(id)
	if ok {
		groupIDs := make([]string, 0, len(user.Groups))
		for _, g := range user.Groups {
			groupIDs = append(groupIDs, strconv.FormatInt(g.ID, 10))
		}
		c.editForm = EditForm{
			ID:       strconv.FormatInt(user.ID, 10),
			Username: user.Username,
			Email:    user.Email,
			IsAdmin:  user.IsAdmin,
			IsActive: user.IsActive,
			GroupIDs: groupIDs,
		}
	}
	c.mu.Unlock()
	if ok {
		c.page.Modals.Open(ModalEditUser)
	}
}

// Update validates form, puts it and reloads the table.
func (c *Controller) Update(ctx context.Context, id int64, form EditForm) error {
	form.ID = strconv.FormatInt(id, 10)
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	c.mu.Lock()
	c.editForm = form
	c.mu.Unlock()
	c.page.Modals.Open(ModalEditUser)

	if err := c.validator.Struct(form); err != nil {
		return c.invalid(msgRequiredFields)
	}

	payload := apiclient.UpdateUserRequest{
		Username: form.Username,
		Email:    form.Email,
		IsAdmin:  form.IsAdmin,
		IsActive: form.IsActive,
		GroupIDs: parseGroupIDs(form.GroupIDs),
	}
	if _, err := c.backend.UpdateUser(ctx, id, payload); err != nil {
		c.fail("update", "Erro ao atualizar usuário: ", err)
		return fmt.Errorf("update user %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Usuário atualizado com sucesso!")
	c.page.Modals.Close(ModalEditUser)
	return c.Load(ctx)
}

// ToggleUserStatus activates or deactivates a user without confirmation.
func (c *Controller) ToggleUserStatus(ctx context.Context, id int64, activate bool) error {
	call, verb, done := c.backend.DeactivateUser, "inativar", "inativado"
	if activate {
		call, verb, done = c.backend.ActivateUser, "ativar", "ativado"
	}
	if _, err := call(ctx, id); err != nil {
		c.fail("toggle status", "Erro ao "+verb+" usuário: ", err)
		return fmt.Errorf("toggle status of user %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Usuário " + done + " com sucesso!")
	return c.Load(ctx)
}

// ToggleAdmin grants or revokes the admin role without confirmation.
func (c *Controller) ToggleAdmin(ctx context.Context, id int64, makeAdmin bool) error {
	call, done := c.backend.RemoveAdmin, "removido de administrador"
	if makeAdmin {
		call, done = c.backend.MakeAdmin, "promovido a administrador"
	}
	if _, err := call(ctx, id); err != nil {
		c.fail("toggle admin", "Erro: ", err)
		return fmt.Errorf("toggle admin of user %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Usuário " + done + " com sucesso!")
	return c.Load(ctx)
}

// OpenResetPassword shows the reset password dialog for id.
func (c *Controller) OpenResetPassword(id int64) {
	c.mu.Lock()
	c.passwordForm = PasswordForm{UserID: strconv.FormatInt(id, 10)}
	c.mu.Unlock()
	c.page.Modals.Open(ModalResetPassword)
}

// ResetPassword checks both fields and posts the new password. Nothing is
// sent when validation fails. Success closes the dialog without a reload.
func (c *Controller) ResetPassword(ctx context.Context, id int64, form PasswordForm) error {
	form.UserID = strconv.FormatInt(id, 10)
	c.mu.Lock()
	c.passwordForm = form
	c.mu.Unlock()
	c.page.Modals.Open(ModalResetPassword)

	if err := c.validator.Struct(form); err != nil {
		return c.invalid(msgRequiredAll)
	}
	if form.NewPassword != form.ConfirmPassword {
		return c.invalid(msgPasswordMismatch)
	}

	if err := c.backend.ResetPassword(ctx, id, form.NewPassword); err != nil {
		c.fail("reset password", "Erro ao resetar senha: ", err)
		return fmt.Errorf("reset password of user %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Senha resetada com sucesso!")
	c.page.Modals.Close(ModalResetPassword)
	return nil
}

// OpenDelete shows the delete confirmation dialog for id.
func (c *Controller) OpenDelete(id int64) {
	c.mu.Lock()
	c.deleteID = id
	c.deleteName = ""
	if user, ok := c.findLocked(id); ok {
		c.deleteName = user.Username
	}
	c.mu.Unlock()
	c.page.Modals.Open(ModalDeleteUser)
}

// ConfirmDelete deletes the user and reloads the table. A failure leaves the
// dialog open.
func (c *Controller) ConfirmDelete(ctx context.Context, id int64) error {
	c.OpenDelete(id)
	if err := c.backend.DeleteUser(ctx, id); err != nil {
		c.fail("delete", "Erro ao deletar usuário: ", err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	c.page.Alerts.ShowSuccess("Usuário deletado com sucesso!")
	c.page.Modals.Close(ModalDeleteUser)
	return c.Load(ctx)
}

// CloseModal hides one of the users dialogs.
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

// Snapshot returns a copy of the last loaded users.
func (c *Controller) Snapshot() []apiclient.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]apiclient.User(nil), c.users...)
}

// Table returns the current table render.
func (c *Controller) Table() TableView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

// View assembles the page view-model.
func (c *Controller) View() PageView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := PageView{
		State:         c.state,
		Loading:       c.page.Loading.Visible(RegionUsers),
		Filter:        c.filter,
		Table:         c.table,
		AddForm:       c.addForm,
		EditForm:      c.editForm,
		PasswordForm:  c.passwordForm,
		DeleteID:      c.deleteID,
		DeleteTarget:  c.deleteName,
		AddGroupOpts:  GroupOptions(c.groups, c.addForm.GroupIDs),
		EditGroupOpts: GroupOptions(c.groups, c.editForm.GroupIDs),
		StatusFilters: filterOptions(c.filter.Status, [2]string{StatusActive, "Ativos"}, [2]string{StatusInactive, "Inativos"}),
		RoleFilters:   filterOptions(c.filter.Role, [2]string{RoleAdmin, "Administradores"}, [2]string{RoleRegular, "Regulares"}),
	}
	for _, id := range []string{ModalAddUser, ModalEditUser, ModalResetPassword, ModalDeleteUser} {
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

func (c *Controller) resetForms(modal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch modal {
	case ModalAddUser:
		c.addForm = blankCreateForm()
	case ModalEditUser:
		c.editForm = EditForm{}
	case ModalResetPassword:
		c.passwordForm = PasswordForm{}
	}
}

func (c *Controller) renderLocked() {
	c.table = RenderUsers(FilterUsers(c.users, c.filter))
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

func (c *Controller) findLocked(id int64) (apiclient.User, bool) {
	for _, u := range c.users {
		if u.ID == id {
			return u, true
		}
	}
	return apiclient.User{}, false
}

func (c *Controller) invalid(message string) error {
	c.page.Alerts.ShowError(message)
	return shared.NewValidationError(message)
}

func (c *Controller) fail(command, prefix string, err error) {
	c.logger.Warn("backend call failed", slog.String("command", command), slog.Any("error", err))
	c.page.Alerts.ShowError(prefix + apiclient.Message(err))
}

// parseGroupIDs coerces select values to ids, dropping anything non-numeric.
func parseGroupIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
