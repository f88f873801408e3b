package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/contacts-manager/internal/model"
)

// Memory is an in-process store implementing the same contracts as the
// MySQL repositories. It backs STORE_DRIVER=memory and the tests. A single
// RWMutex serialises writers the way the database would.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]model.User
	byEmail  map[string]string // email -> user id
	contacts map[string]memContact
	seq      uint64
}

type memContact struct {
	model.Contact
	seq uint64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]model.User),
		byEmail:  make(map[string]string),
		contacts: make(map[string]memContact),
	}
}

// Users exposes the store through the user repository contract.
func (m *Memory) Users() *MemoryUserRepo { return &MemoryUserRepo{m: m} }

// Contacts exposes the store through the contact repository contract.
func (m *Memory) Contacts() *MemoryContactRepo { return &MemoryContactRepo{m: m} }

// PingContext always succeeds.
func (m *Memory) PingContext(context.Context) error { return nil }

// MemoryUserRepo is the in-memory counterpart of UserRepo.
type MemoryUserRepo struct{ m *Memory }

func (r *MemoryUserRepo) Create(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.byEmail[u.Email]; ok {
		return ErrEmailExists
	}
	r.m.users[u.ID] = *u
	r.m.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	id, ok := r.m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.m.users[id]
	return &u, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// MemoryContactRepo is the in-memory counterpart of ContactRepo.
type MemoryContactRepo struct{ m *Memory }

func (r *MemoryContactRepo) Create(_ context.Context, c *model.Contact) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.seq++
	r.m.contacts[c.ID] = memContact{Contact: *c, seq: r.m.seq}
	return nil
}

func (r *MemoryContactRepo) GetByIDAndOwner(_ context.Context, id, ownerID string) (*model.Contact, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	mc, ok := r.m.contacts[id]
	if !ok || mc.UserID != ownerID {
		return nil, ErrContactNotFound
	}
	c := mc.Contact
	return &c, nil
}

func (r *MemoryContactRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Contact, error) {
	r.m.mu.RLock()
	owned := make([]memContact, 0)
	for _, mc := range r.m.contacts {
		if mc.UserID == ownerID {
			owned = append(owned, mc)
		}
	}
	r.m.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].seq > owned[j].seq
	})
	out := make([]model.Contact, len(owned))
	for i, mc := range owned {
		out[i] = mc.Contact
	}
	return out, nil
}

func (r *MemoryContactRepo) Update(_ context.Context, c *model.Contact) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	mc, ok := r.m.contacts[c.ID]
	if !ok || mc.UserID != c.UserID {
		return ErrContactNotFound
	}
	mc.FullName = c.FullName
	mc.Gender = c.Gender
	mc.Email = c.Email
	mc.PhoneNumber = c.PhoneNumber
	r.m.contacts[c.ID] = mc
	return nil
}

func (r *MemoryContactRepo) DeleteByIDAndOwner(_ context.Context, id, ownerID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	mc, ok := r.m.contacts[id]
	if !ok || mc.UserID != ownerID {
		return ErrContactNotFound
	}
	delete(r.m.contacts, id)
	return nil
}
