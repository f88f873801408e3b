package service

import (
	"context"

	"github.com/iliyamo/contacts-manager/internal/model"
)

// UserStore is the credential store. repository.UserRepo and
// repository.MemoryUserRepo implement it.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ContactStore persists contacts. Every method except Create is scoped to
// an owner.
type ContactStore interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Contact, error)
	Update(ctx context.Context, c *model.Contact) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error
}
