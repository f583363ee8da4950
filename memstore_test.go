package main

import (
	"sync"
	"time"

	"fuelcheck/models"
)

// memStore is an in-memory UserStore so service and handler tests run
// without a database.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by id
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*models.User{}}
}

func (m *memStore) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetOrCreate(email string, defaults *models.User) (*models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, false, nil
		}
	}
	cp := *defaults
	now := time.Now()
	cp.CreatedAt, cp.UpdatedAt = now, now
	m.users[cp.ID] = &cp
	out := cp
	return &out, true, nil
}

func (m *memStore) Update(id string, patch map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	for k, v := range patch {
		switch k {
		case "full_name":
			u.FullName = v.(string)
		case "password_hash":
			u.PasswordHash = v.([]byte)
		case "session_marker":
			u.SessionMarker = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		}
	}
	u.UpdatedAt = time.Now()
	return true, nil
}

func (m *memStore) Delete(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

// setActive flips the stored flag directly, bypassing the service, the way
// an admin deactivation would.
func (m *memStore) setActive(id string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.IsActive = active
	}
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
