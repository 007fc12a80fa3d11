// Package mocks provides hand-rolled test doubles for the store and
// service interfaces. Each mock keeps an overridable Fn per method and
// falls back to simple in-memory behavior when no override is set.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/userdir-io/userdir/internal/domain"
	"github.com/userdir-io/userdir/internal/store"
)

// MockUserStore implements store.UserStore for testing using an
// in-memory map keyed by user ID.
type MockUserStore struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64

	// Custom behavior functions; when set they replace the default
	// in-memory behavior entirely.
	CreateFn     func(ctx context.Context, params store.CreateUserParams) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListFn       func(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountFn      func(ctx context.Context) (int64, error)
	UpdateFn     func(ctx context.Context, id int64, params store.UpdateUserParams) (*domain.User, error)
	DeleteFn     func(ctx context.Context, id int64) (int64, error)

	// Call counters for verification
	CreateCalls  int
	GetByIDCalls int
	ListCalls    int
	UpdateCalls  int
	DeleteCalls  int
}

// NewMockUserStore creates an empty in-memory user store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:  make(map[int64]domain.User),
		nextID: 1,
	}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.Create.
func (m *MockUserStore) Create(
	ctx context.Context,
	params store.CreateUserParams,
) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if m.CreateFn != nil {
		return m.CreateFn(ctx, params)
	}

	for _, u := range m.users {
		if u.Email == params.Email {
			return nil, store.ErrEmailExists
		}
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             m.nextID,
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		Email:          params.Email,
		HashedPassword: params.PasswordHash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.users[user.ID] = user
	m.nextID++

	return &user, nil
}

// GetByID implements store.UserStore.GetByID.
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByIDCalls++

	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore.List, returning users in ID order.
func (m *MockUserStore) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++

	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}

	all := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Count implements store.UserStore.Count.
func (m *MockUserStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return int64(len(m.users)), nil
}

// Update implements store.UserStore.Update with the stored routine's
// retain-hash-on-nil semantics.
func (m *MockUserStore) Update(
	ctx context.Context,
	id int64,
	params store.UpdateUserParams,
) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, params)
	}

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	for otherID, u := range m.users {
		if otherID != id && u.Email == params.Email {
			return nil, store.ErrEmailExists
		}
	}

	user.FirstName = params.FirstName
	user.LastName = params.LastName
	user.Email = params.Email
	if params.PasswordHash != nil {
		user.HashedPassword = *params.PasswordHash
	}
	user.UpdatedAt = time.Now().UTC()
	m.users[id] = user

	return &user, nil
}

// Delete implements store.UserStore.Delete.
func (m *MockUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

// Seed inserts a user directly, bypassing the Create path. Useful for
// arranging fixtures without counting a Create call.
func (m *MockUserStore) Seed(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user.ID] = user
	if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
}
