package users

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
	"github.com/odyssey-erp/admin-console/internal/shared"
	"github.com/odyssey-erp/admin-console/internal/ui"
)

func newTestController(t *testing.T, backend *fakeBackend) (*Controller, *ui.ManualScheduler) {
	t.Helper()
	sched := ui.NewManualScheduler()
	ctrl := NewController(backend, ui.NewPage(sched.Schedule), nil, Config{Schedule: sched.Schedule})
	t.Cleanup(ctrl.Close)
	return ctrl, sched
}

func alertMessages(ctrl *Controller) []string {
	var out []string
	for _, a := range ctrl.Page().Alerts.Alerts() {
		out = append(out, a.Message)
	}
	return out
}

func lastAlert(t *testing.T, ctrl *Controller) ui.Alert {
	t.Helper()
	alerts := ctrl.Page().Alerts.Alerts()
	require.NotEmpty(t, alerts)
	return alerts[len(alerts)-1]
}

func backendErr(status int, msg string) error {
	return &apiclient.APIError{Method: http.MethodPost, Path: "/api/users", Status: status, Message: msg}
}

func TestOpenLoadsUsersAndGroupOptions(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	backend.groups = []apiclient.Group{{ID: 10, Name: "Ops"}}
	ctrl, _ := newTestController(t, backend)

	require.NoError(t, ctrl.Open(context.Background()))

	view := ctrl.View()
	assert.Equal(t, StateLoaded, view.State)
	assert.False(t, view.Loading)
	assert.Len(t, view.Table.Rows, 3)
	assert.Equal(t, []Option{{Value: "10", Label: "Ops"}}, view.AddGroupOpts)
	assert.Empty(t, alertMessages(ctrl))
}

func TestLoadFailureKeepsPreviousTable(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Load(context.Background()))

	backend.failOn("ListUsers", backendErr(http.StatusInternalServerError, "banco indisponível"))
	err := ctrl.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateErrored, ctrl.State())
	assert.Len(t, ctrl.Table().Rows, 3)
	alert := lastAlert(t, ctrl)
	assert.Equal(t, "Erro ao carregar usuários: banco indisponível", alert.Message)
	assert.Equal(t, ui.SeverityDanger, alert.Severity)
	assert.False(t, ctrl.Page().Loading.Visible(RegionUsers))
}

func TestCreateSendsFormAndReloads(t *testing.T) {
	backend := newFakeBackend()
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Open(context.Background()))
	ctrl.OpenCreate()

	err := ctrl.Create(context.Background(), CreateForm{
		Username: " alice ",
		Email:    "a@x.com",
		Password: "secret123",
		IsActive: true,
	})
	require.NoError(t, err)

	require.Len(t, backend.created, 1)
	assert.Equal(t, apiclient.CreateUserRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret123",
		IsActive: true,
		GroupIDs: []int64{},
	}, backend.created[0])
	assert.Equal(t, "Usuário criado com sucesso!", lastAlert(t, ctrl).Message)
	assert.False(t, ctrl.Page().Modals.IsOpen(ModalAddUser))
	assert.Equal(t, 2, backend.called("ListUsers"))
	assert.Len(t, ctrl.Table().Rows, 1)
	assert.Equal(t, blankCreateForm(), ctrl.View().AddForm)
}

func TestCreateRejectsMissingFieldsWithoutCalling(t *testing.T) {
	backend := newFakeBackend()
	ctrl, _ := newTestController(t, backend)

	err := ctrl.Create(context.Background(), CreateForm{Username: "alice", Email: "  "})

	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Zero(t, backend.called("CreateUser"))
	assert.Equal(t, msgRequiredFields, lastAlert(t, ctrl).Message)
	assert.True(t, ctrl.Page().Modals.IsOpen(ModalAddUser))
	assert.Equal(t, "alice", ctrl.View().AddForm.Username)
}

func TestCreateBackendErrorKeepsDialogOpen(t *testing.T) {
	backend := newFakeBackend()
	backend.failOn("CreateUser", backendErr(http.StatusConflict, "Usuário já existe"))
	ctrl, _ := newTestController(t, backend)

	err := ctrl.Create(context.Background(), CreateForm{Username: "alice", Email: "a@x.com", Password: "p"})

	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Erro ao criar usuário: Usuário já existe", lastAlert(t, ctrl).Message)
	assert.True(t, ctrl.Page().Modals.IsOpen(ModalAddUser))
	assert.Zero(t, backend.called("ListUsers"))
}

func TestUpdateSendsGroupIDs(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.OpenEdit(1)
	view := ctrl.View()
	require.Equal(t, ModalEditUser, view.OpenModal)
	assert.Equal(t, EditForm{ID: "1", Username: "alice", Email: "alice@example.com", IsAdmin: true, IsActive: true, GroupIDs: []string{"10"}}, view.EditForm)

	err := ctrl.Update(context.Background(), 1, EditForm{Username: "alice2", Email: "alice@example.com", IsActive: true, GroupIDs: []string{"10", "x", "11"}})
	require.NoError(t, err)

	assert.Equal(t, apiclient.UpdateUserRequest{Username: "alice2", Email: "alice@example.com", IsActive: true, GroupIDs: []int64{10, 11}}, backend.updated[1])
	assert.Equal(t, "Usuário atualizado com sucesso!", lastAlert(t, ctrl).Message)
	assert.Empty(t, ctrl.View().OpenModal)
	assert.Equal(t, EditForm{}, ctrl.View().EditForm)
}

func TestOpenEditUnknownUserIsSilent(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeBackend(sampleUsers()...))
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.OpenEdit(99)

	assert.Empty(t, ctrl.View().OpenModal)
	assert.Empty(t, alertMessages(ctrl))
}

func TestToggleUserStatus(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Load(context.Background()))

	require.NoError(t, ctrl.ToggleUserStatus(context.Background(), 2, true))
	assert.Equal(t, "Usuário ativado com sucesso!", lastAlert(t, ctrl).Message)
	assert.Equal(t, "Ativo", ctrl.Table().Rows[1].Status.Label)

	require.NoError(t, ctrl.ToggleUserStatus(context.Background(), 2, false))
	assert.Equal(t, "Usuário inativado com sucesso!", lastAlert(t, ctrl).Message)

	backend.failOn("ActivateUser", backendErr(http.StatusNotFound, "Usuário não encontrado"))
	require.Error(t, ctrl.ToggleUserStatus(context.Background(), 2, true))
	assert.Equal(t, "Erro ao ativar usuário: Usuário não encontrado", lastAlert(t, ctrl).Message)
}

func TestToggleAdmin(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)

	require.NoError(t, ctrl.ToggleAdmin(context.Background(), 3, true))
	assert.Equal(t, "Usuário promovido a administrador com sucesso!", lastAlert(t, ctrl).Message)

	require.NoError(t, ctrl.ToggleAdmin(context.Background(), 3, false))
	assert.Equal(t, "Usuário removido de administrador com sucesso!", lastAlert(t, ctrl).Message)

	backend.failOn("RemoveAdmin", backendErr(http.StatusBadRequest, "Último administrador"))
	require.Error(t, ctrl.ToggleAdmin(context.Background(), 1, false))
	assert.Equal(t, "Erro: Último administrador", lastAlert(t, ctrl).Message)
}

func TestResetPasswordValidation(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	ctrl.OpenResetPassword(3)

	err := ctrl.ResetPassword(context.Background(), 3, PasswordForm{NewPassword: "p1", ConfirmPassword: "p2"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, "As senhas não coincidem", lastAlert(t, ctrl).Message)

	err = ctrl.ResetPassword(context.Background(), 3, PasswordForm{NewPassword: "p1"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, "Por favor, preencha todos os campos", lastAlert(t, ctrl).Message)

	assert.Zero(t, backend.called("ResetPassword"))
	assert.True(t, ctrl.Page().Modals.IsOpen(ModalResetPassword))
}

func TestResetPasswordSuccessClosesWithoutReload(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	ctrl.OpenResetPassword(3)

	require.NoError(t, ctrl.ResetPassword(context.Background(), 3, PasswordForm{NewPassword: "n3w", ConfirmPassword: "n3w"}))

	assert.Equal(t, "n3w", backend.passwords[3])
	assert.Equal(t, "Senha resetada com sucesso!", lastAlert(t, ctrl).Message)
	assert.False(t, ctrl.Page().Modals.IsOpen(ModalResetPassword))
	assert.Zero(t, backend.called("ListUsers"))
}

func TestConfirmDelete(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.OpenDelete(2)
	view := ctrl.View()
	assert.Equal(t, ModalDeleteUser, view.OpenModal)
	assert.Equal(t, "Bob", view.DeleteTarget)

	require.NoError(t, ctrl.ConfirmDelete(context.Background(), 2))
	assert.Equal(t, "Usuário deletado com sucesso!", lastAlert(t, ctrl).Message)
	assert.Equal(t, []int64{1, 3}, ids(ctrl.Snapshot()))
	assert.Empty(t, ctrl.View().OpenModal)
}

func TestConfirmDeleteFailureKeepsDialog(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	backend.failOn("DeleteUser", backendErr(http.StatusForbidden, "Não é possível deletar a si mesmo"))
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Load(context.Background()))

	require.Error(t, ctrl.ConfirmDelete(context.Background(), 1))
	assert.Equal(t, "Erro ao deletar usuário: Não é possível deletar a si mesmo", lastAlert(t, ctrl).Message)
	assert.True(t, ctrl.Page().Modals.IsOpen(ModalDeleteUser))
}

func TestSearchIsDebounced(t *testing.T) {
	ctrl, sched := newTestController(t, newFakeBackend(sampleUsers()...))
	require.NoError(t, ctrl.Load(context.Background()))
	renders, cancel := ctrl.Subscribe()
	defer cancel()

	ctrl.SearchInput("a")
	ctrl.SearchInput("al")
	ctrl.SearchInput("bob")

	sched.Advance(DefaultSearchDelay - time.Millisecond)
	assert.Len(t, ctrl.Table().Rows, 3)
	select {
	case <-renders:
		t.Fatal("render before the debounce window elapsed")
	default:
	}

	sched.Advance(time.Millisecond)
	select {
	case table := <-renders:
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Bob", table.Rows[0].Username)
	default:
		t.Fatal("expected a render after the debounce window")
	}
	assert.Zero(t, sched.Pending())
}

func TestReloadReappliesActiveFilter(t *testing.T) {
	backend := newFakeBackend(sampleUsers()...)
	ctrl, _ := newTestController(t, backend)
	require.NoError(t, ctrl.Load(context.Background()))

	table := ctrl.ApplyFilter(Filter{Status: StatusInactive})
	require.Len(t, table.Rows, 1)

	require.NoError(t, ctrl.ToggleUserStatus(context.Background(), 1, false))
	assert.Equal(t, []int64{1, 2}, rowIDs(ctrl.Table()))
}

func TestSubscriberKeepsOnlyLatestRender(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeBackend(sampleUsers()...))
	require.NoError(t, ctrl.Load(context.Background()))
	renders, cancel := ctrl.Subscribe()
	defer cancel()

	ctrl.SetRoleFilter(RoleAdmin)
	ctrl.SetStatusFilter(StatusActive)
	ctrl.SetRoleFilter(RoleRegular)

	table := <-renders
	assert.Equal(t, []int64{3}, rowIDs(table))
	select {
	case <-renders:
		t.Fatal("stale render delivered")
	default:
	}
}

func TestAddModalHiddenResetsForm(t *testing.T) {
	ctrl, _ := newTestController(t, newFakeBackend())
	_ = ctrl.Create(context.Background(), CreateForm{Username: "draft"})
	require.Equal(t, "draft", ctrl.View().AddForm.Username)

	ctrl.CloseModal(ModalAddUser)

	assert.Equal(t, blankCreateForm(), ctrl.View().AddForm)
}

func TestCloseStopsSearchAndSubscriptions(t *testing.T) {
	ctrl, sched := newTestController(t, newFakeBackend(sampleUsers()...))
	require.NoError(t, ctrl.Load(context.Background()))
	renders, _ := ctrl.Subscribe()

	ctrl.SearchInput("bob")
	ctrl.Close()
	sched.Advance(time.Second)

	_, ok := <-renders
	assert.False(t, ok)
	assert.Len(t, ctrl.Table().Rows, 3)
	assert.ErrorIs(t, ctrl.Open(context.Background()), shared.ErrWorkspaceClosed)

	late, _ := ctrl.Subscribe()
	_, ok = <-late
	assert.False(t, ok)

	ctrl.CloseModal(ModalAddUser)
}

func rowIDs(table TableView) []int64 {
	out := make([]int64, 0, len(table.Rows))
	for _, r := range table.Rows {
		out = append(out, r.ID)
	}
	return out
}
