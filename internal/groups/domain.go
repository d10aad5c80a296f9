package groups

import (
	"context"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

// Backend is the slice of the REST API the groups page needs.
type Backend interface {
	ListGroups(ctx context.Context) ([]apiclient.Group, error)
	CreateGroup(ctx context.Context, payload apiclient.GroupRequest) (apiclient.Group, error)
	UpdateGroup(ctx context.Context, id int64, payload apiclient.GroupRequest) (apiclient.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	ListGroupUsers(ctx context.Context, id int64) ([]apiclient.User, error)
	ListUsers(ctx context.Context) ([]apiclient.User, error)
	AddUserToGroups(ctx context.Context, userID int64, groupIDs []int64) (apiclient.User, error)
	RemoveUserFromGroup(ctx context.Context, userID, groupID int64) (apiclient.User, error)
}

// Confirmer asks the operator to accept prompt.
type Confirmer func(prompt string) bool

// State is the lifecycle of the groups snapshot.
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

// Dialog and indicator ids rendered by the groups page.
const (
	RegionGroups     = "loadingGroups"
	ModalAddGroup    = "addGroupModal"
	ModalEditGroup   = "editGroupModal"
	ModalDeleteGroup = "deleteGroupModal"
	ModalMembers     = "viewGroupUsersModal"
)

// GroupForm backs both the add and the edit group dialogs.
type GroupForm struct {
	ID          string
	Name        string `validate:"required"`
	Description string
}

const (
	msgNameRequired   = "Por favor, informe o nome do grupo"
	msgSelectUser     = "Por favor, selecione um usuário"
	msgUsersListError = "Erro ao carregar lista de usuários"
	// RemovePrompt guards member removal.
	RemovePrompt = "Tem certeza que deseja remover este usuário do grupo?"
)
