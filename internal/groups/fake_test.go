package groups

import (
	"context"
	"sync"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

type membership struct {
	userID  int64
	groupID int64
}

type fakeBackend struct {
	mu      sync.Mutex
	groups  []apiclient.Group
	users   []apiclient.User
	members map[int64][]int64
	calls   []string
	created []apiclient.GroupRequest
	added   []membership
	removed []membership
	errs    map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		groups: []apiclient.Group{
			{ID: 1, Name: "Admins", Description: "Equipe de plataforma", UserCount: 1},
			{ID: 2, Name: "Vendas", UserCount: 0},
		},
		users: []apiclient.User{
			{ID: 10, Username: "alice", Email: "alice@example.com", IsActive: true, IsAdmin: true},
			{ID: 11, Username: "bob", Email: "bob@example.com"},
		},
		members: map[int64][]int64{1: {10}},
		errs:    make(map[string]error),
	}
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeBackend) failOn(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[call] = err
}

func (f *fakeBackend) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListGroups(context.Context) ([]apiclient.Group, error) {
	if err := f.record("ListGroups"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]apiclient.Group(nil), f.groups...)
	for i := range out {
		out[i].UserCount = len(f.members[out[i].ID])
	}
	return out, nil
}

func (f *fakeBackend) CreateGroup(_ context.Context, payload apiclient.GroupRequest) (apiclient.Group, error) {
	if err := f.record("CreateGroup"); err != nil {
		return apiclient.Group{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	g := apiclient.Group{ID: int64(100 + len(f.created)), Name: payload.Name, Description: payload.Description}
	f.groups = append(f.groups, g)
	return g, nil
}

func (f *fakeBackend) UpdateGroup(_ context.Context, id int64, payload apiclient.GroupRequest) (apiclient.Group, error) {
	if err := f.record("UpdateGroup"); err != nil {
		return apiclient.Group{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.groups {
		if f.groups[i].ID == id {
			f.groups[i].Name, f.groups[i].Description = payload.Name, payload.Description
			return f.groups[i], nil
		}
	}
	return apiclient.Group{}, nil
}

func (f *fakeBackend) DeleteGroup(_ context.Context, id int64) error {
	if err := f.record("DeleteGroup"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.groups {
		if g.ID == id {
			f.groups = append(f.groups[:i], f.groups[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ListGroupUsers(_ context.Context, id int64) ([]apiclient.User, error) {
	if err := f.record("ListGroupUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiclient.User
	for _, uid := range f.members[id] {
		for _, u := range f.users {
			if u.ID == uid {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeBackend) ListUsers(context.Context) ([]apiclient.User, error) {
	if err := f.record("ListUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiclient.User(nil), f.users...), nil
}

func (f *fakeBackend) AddUserToGroups(_ context.Context, userID int64, groupIDs []int64) (apiclient.User, error) {
	if err := f.record("AddUserToGroups"); err != nil {
		return apiclient.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, gid := range groupIDs {
		f.added = append(f.added, membership{userID: userID, groupID: gid})
		f.members[gid] = append(f.members[gid], userID)
	}
	return apiclient.User{ID: userID}, nil
}

func (f *fakeBackend) RemoveUserFromGroup(_ context.Context, userID, groupID int64) (apiclient.User, error) {
	if err := f.record("RemoveUserFromGroup"); err != nil {
		return apiclient.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, membership{userID: userID, groupID: groupID})
	kept := f.members[groupID][:0]
	for _, uid := range f.members[groupID] {
		if uid != userID {
			kept = append(kept, uid)
		}
	}
	f.members[groupID] = kept
	return apiclient.User{ID: userID}, nil
}
