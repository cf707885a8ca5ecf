package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/localisation/backend/internal/domain/identity"
	"github.com/localisation/backend/internal/domain/shared"
)

// UserRepository keeps user accounts in memory
type UserRepository struct {
	mu    sync.RWMutex
	users []identity.User
}

// NewUserRepository creates a repository holding copies of the given users
func NewUserRepository(users ...*identity.User) *UserRepository {
	r := &UserRepository{}
	for _, u := range users {
		r.users = append(r.users, *u)
	}
	return r
}

// Create assigns max+1 to the user. Emails are unique, case-insensitively.
func (r *UserRepository) Create(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := 0
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "A user with this email already exists")
		}
		next = max(next, u.ID)
	}
	user.ID = next + 1
	r.users = append(r.users, *user)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id int) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, shared.NewNotFoundError("user", strconv.Itoa(id))
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			out := u
			return &out, nil
		}
	}
	return nil, shared.NewNotFoundError("user", email)
}

func (r *UserRepository) FindAll(_ context.Context) ([]*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*identity.User, 0, len(r.users))
	for _, u := range r.users {
		c := u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ identity.UserRepository = (*UserRepository)(nil)
