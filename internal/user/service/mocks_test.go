package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/AlibekovAA/user-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-api/internal/user/repository"
)

// memoryRepo keeps users in insertion order, like a fresh heap table.
type memoryRepo struct {
	mu    sync.Mutex
	users []domain.User

	failWith   error
	failTimes  int
	calls      int
	lastLimit  int
	lastOffset int
}

func (m *memoryRepo) fail() error {
	m.calls++
	if m.failWith != nil && (m.failTimes == 0 || m.calls <= m.failTimes) {
		return m.failWith
	}
	return nil
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return nil, err
	}
	return append([]domain.User(nil), m.users...), nil
}

func (m *memoryRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit, m.lastOffset = limit, offset
	if err := m.fail(); err != nil {
		return nil, err
	}
	if offset >= len(m.users) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(m.users) {
		end = len(m.users)
	}
	return append([]domain.User(nil), m.users[offset:end]...), nil
}

func (m *memoryRepo) Create(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	m.users = append(m.users, user)
	return nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return domain.User{}, err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *memoryRepo) Update(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = user
			return nil
		}
	}
	return userrepo.ErrUserNotFound
}

func (m *memoryRepo) Delete(ctx context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return userrepo.ErrUserNotFound
}

type mockIDGenerator struct {
	err error
}

func (g *mockIDGenerator) NewID() (uuid.UUID, error) {
	if g.err != nil {
		return uuid.Nil, g.err
	}
	return uuid.New(), nil
}
