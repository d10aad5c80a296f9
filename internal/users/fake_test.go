package users

import (
	"context"
	"sync"

	"github.com/odyssey-erp/admin-console/internal/apiclient"
)

type fakeBackend struct {
	mu        sync.Mutex
	users     []apiclient.User
	groups    []apiclient.Group
	calls     []string
	created   []apiclient.CreateUserRequest
	updated   map[int64]apiclient.UpdateUserRequest
	passwords map[int64]string
	errs      map[string]error
}

func newFakeBackend(users ...apiclient.User) *fakeBackend {
	return &fakeBackend{
		users:     users,
		updated:   make(map[int64]apiclient.UpdateUserRequest),
		passwords: make(map[int64]string),
		errs:      make(map[string]error),
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

func (f *fakeBackend) ListUsers(context.Context) ([]apiclient.User, error) {
	if err := f.record("ListUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiclient.User(nil), f.users...), nil
}

func (f *fakeBackend) ListGroups(context.Context) ([]apiclient.Group, error) {
	if err := f.record("ListGroups"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiclient.Group(nil), f.groups...), nil
}

func (f *fakeBackend) CreateUser(_ context.Context, payload apiclient.CreateUserRequest) (apiclient.User, error) {
	if err := f.record("CreateUser"); err != nil {
		return apiclient.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	u := apiclient.User{ID: int64(100 + len(f.created)), Username: payload.Username, Email: payload.Email, IsActive: payload.IsActive, IsAdmin: payload.IsAdmin}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeBackend) UpdateUser(_ context.Context, id int64, payload apiclient.UpdateUserRequest) (apiclient.User, error) {
	if err := f.record("UpdateUser"); err != nil {
		return apiclient.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = payload
	return f.mutate(id, func(u *apiclient.User) {
		u.Username, u.Email, u.IsAdmin, u.IsActive = payload.Username, payload.Email, payload.IsAdmin, payload.IsActive
	}), nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, id int64) error {
	if err := f.record("DeleteUser"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) ActivateUser(_ context.Context, id int64) (apiclient.User, error) {
	return f.toggle("ActivateUser", id, func(u *apiclient.User) { u.IsActive = true })
}

func (f *fakeBackend) DeactivateUser(_ context.Context, id int64) (apiclient.User, error) {
	return f.toggle("DeactivateUser", id, func(u *apiclient.User) { u.IsActive = false })
}

func (f *fakeBackend) MakeAdmin(_ context.Context, id int64) (apiclient.User, error) {
	return f.toggle("MakeAdmin", id, func(u *apiclient.User) { u.IsAdmin = true })
}

func (f *fakeBackend) RemoveAdmin(_ context.Context, id int64) (apiclient.User, error) {
	return f.toggle("RemoveAdmin", id, func(u *apiclient.User) { u.IsAdmin = false })
}

func (f *fakeBackend) ResetPassword(_ context.Context, id int64, newPassword string) error {
	if err := f.record("ResetPassword"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[id] = newPassword
	return nil
}

func (f *fakeBackend) toggle(call string, id int64, fn func(*apiclient.User)) (apiclient.User, error) {
	if err := f.record(call); err != nil {
		return apiclient.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutate(id, fn), nil
}

func (f *fakeBackend) mutate(id int64, fn func(*apiclient.User)) apiclient.User {
	for i := range f.users {
		if f.users[i].ID == id {
			fn(&f.users[i])
			return f.users[i]
		}
	}
	return apiclient.User{}
}

func sampleUsers() []apiclient.User {
	return []apiclient.User{
		{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true, IsAdmin: true, Groups: []apiclient.GroupRef{{ID: 10, Name: "Ops"}}},
		{ID: 2, Username: "Bob", Email: "bob@corp.io", IsActive: false},
		{ID: 3, Username: "carol", Email: "carol@example.com", IsActive: true},
	}
}
