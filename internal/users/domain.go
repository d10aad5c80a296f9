package users

import (
	"context"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

// Backend is the slice of the REST API the users page needs.
type Backend interface {
	ListUsers(ctx context.Context) ([]apiclient.User, error)
	ListGroups(ctx context.Context) ([]apiclient.Group, error)
	CreateUser(ctx context.Context, payload apiclient.CreateUserRequest) (apiclient.User, error)
	UpdateUser(ctx context.Context, id int64, payload apiclient.UpdateUserRequest) (apiclient.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ActivateUser(ctx context.Context, id int64) (apiclient.User, error)
	DeactivateUser(ctx context.Context, id int64) (apiclient.User, error)
	MakeAdmin(ctx context.Context, id int64) (apiclient.User, error)
	RemoveAdmin(ctx context.Context, id int64) (apiclient.User, error)
	ResetPassword(ctx context.Context, id int64, newPassword string) error
}

// State is the lifecycle of the users snapshot.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Dialog and indicator ids rendered by the users page.
const (
	RegionUsers        = "loadingUsers"
	ModalAddUser       = "addUserModal"
	ModalEditUser      = "editUserModal"
	ModalResetPassword = "resetPasswordModal"
	ModalDeleteUser    = "deleteUserModal"
)

// Filter values accepted by the status and role dropdowns.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	RoleAdmin      = "admin"
	RoleRegular    = "regular"
)

// Filter is the combined search state of the users table. Empty fields match everything.
type Filter struct {
	Search string
	Status string
	Role   string
}

// CreateForm is the add user dialog.
type CreateForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
	IsAdmin  bool
	IsActive bool
	GroupIDs []string
}

// EditForm is the edit user dialog.
type EditForm struct {
	ID       string
	Username string `validate:"required"`
	Email    string `validate:"required"`
	IsAdmin  bool
	IsActive bool
	GroupIDs []string
}

// PasswordForm is the reset password dialog.
type PasswordForm struct {
	UserID          string
	NewPassword     string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

func blankCreateForm() CreateForm {
	return CreateForm{IsActive: true}
}

const (
	msgRequiredFields   = "Por favor, preencha todos os campos obrigatórios"
	msgRequiredAll      = "Por favor, preencha todos os campos"
	msgPasswordMismatch = "As senhas não coincidem"
)
