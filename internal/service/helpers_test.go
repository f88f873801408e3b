package service

import (
	"context"
	"sync"

	"github.com/iliyamo/contacts-manager/internal/model"
	"github.com/iliyamo/contacts-manager/internal/queue"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// mockUserStore follows the function-field pattern; nil fields fall back to
// harmless defaults.
type mockUserStore struct {
	createFn     func(ctx context.Context, u *model.User) error
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	getByIDFn    func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, u *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return m.getByIDFn(ctx, id)
}
