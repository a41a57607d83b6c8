package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
)

// UserStore keeps credential records keyed by username.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: map[string]models.User{}}
}

var _ repositories.UserStore = (*UserStore)(nil)

// Create stores user, enforcing username uniqueness.
func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return repositories.ErrDuplicateUsername
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	s.users[user.Username] = *user
	return nil
}

// GetByUsername returns a copy of the stored user.
func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

// UsernameExists reports whether username is registered.
func (s *UserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[username]
	return ok, nil
}
