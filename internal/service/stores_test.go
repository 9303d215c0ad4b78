package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/passkeyauth/passkey-server/internal/model"
)

// memoryUserStore and memoryCredentialStore back the scenario tests with
// the same contracts the Postgres repositories implement.

type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]model.User)}
}

func (s *memoryUserStore) GetByHandle(_ context.Context, handle string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[handle]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (s *memoryUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memoryUserStore) CreateIfAbsent(_ context.Context, handle string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[handle]; ok {
		return user, nil
	}
	user := model.User{ID: uuid.New(), Handle: handle, CreatedAt: time.Now()}
	s.users[handle] = user
	return user, nil
}

func (s *memoryUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for handle, user := range s.users {
		if user.ID == id {
			delete(s.users, handle)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *memoryUserStore) idOf(handle string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[handle].ID
}

type memoryCredentialStore struct {
	mu          sync.Mutex
	credentials map[string]model.Credential
}

func newMemoryCredentialStore() *memoryCredentialStore {
	return &memoryCredentialStore{credentials: make(map[string]model.Credential)}
}

func (s *memoryCredentialStore) Create(_ context.Context, credential model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := string(credential.ID)
	if _, ok := s.credentials[key]; ok {
		return model.ErrConflict
	}
	credential.CreatedAt = time.Now()
	s.credentials[key] = credential
	return nil
}

func (s *memoryCredentialStore) GetByID(_ context.Context, id []byte) (model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.credentials[string(id)]
	if !ok {
		return model.Credential{}, model.ErrNotFound
	}
	return credential, nil
}

func (s *memoryCredentialStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Credential
	for _, credential := range s.credentials {
		if credential.UserID == userID {
			out = append(out, credential)
		}
	}
	return out, nil
}

func (s *memoryCredentialStore) UpdateCounter(_ context.Context, id []byte, counter uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.credentials[string(id)]
	if !ok {
		return model.ErrNotFound
	}
	if counter <= credential.Counter {
		return model.ErrStaleCounter
	}
	credential.Counter = counter
	s.credentials[string(id)] = credential
	return nil
}

func (s *memoryCredentialStore) Delete(_ context.Context, id []byte, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.credentials[string(id)]
	if !ok || credential.UserID != userID {
		return model.ErrNotFound
	}
	delete(s.credentials, string(id))
	return nil
}
