package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/contacts-manager/internal/model"
	"github.com/iliyamo/contacts-manager/internal/queue"
	"github.com/iliyamo/contacts-manager/internal/repository"
)

// ContactService implements contact CRUD for a single owner at a time. The
// owner id always comes from the authenticated identity, never from the
// request body.
type ContactService struct {
	contacts ContactStore
	events   queue.Publisher
	now      func() time.Time
}

func NewContactService(contacts ContactStore, events queue.Publisher) *ContactService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &ContactService{contacts: contacts, events: events, now: time.Now}
}

// List returns the owner's contacts, newest first.
func (s *ContactService) List(ctx context.Context, ownerID string) ([]model.Contact, error) {
	out, err := s.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

// Get returns one contact or repository.ErrContactNotFound.
func (s *ContactService) Get(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	if !validID(id) {
		return nil, repository.ErrContactNotFound
	}
	c, err := s.contacts.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, wrapNotFound("get contact", err)
	}
	return c, nil
}

// Create validates the fields and stores a new contact for ownerID.
func (s *ContactService) Create(ctx context.Context, ownerID string, fields model.ContactFields) (*model.Contact, error) {
	fields, err := ValidateContact(fields)
	if err != nil {
		return nil, err
	}
	c := &model.Contact{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		// DATETIME(6) keeps microseconds; the response must match later reads
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	fields.Apply(c)
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	publishEvent(ctx, s.events, queue.Event{Type: queue.ContactCreated, UserID: ownerID, ContactID: c.ID, OccurredAt: c.CreatedAt})
	return c, nil
}

// Update replaces all four mutable fields of an owned contact.
func (s *ContactService) Update(ctx context.Context, ownerID, id string, fields model.ContactFields) (*model.Contact, error) {
	c, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	fields, err = ValidateContact(fields)
	if err != nil {
		return nil, err
	}
	fields.Apply(c)
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, wrapNotFound("update contact", err)
	}
	publishEvent(ctx, s.events, queue.Event{Type: queue.ContactUpdated, UserID: ownerID, ContactID: c.ID, OccurredAt: s.now().UTC()})
	return c, nil
}

// Delete removes an owned contact.
func (s *ContactService) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return repository.ErrContactNotFound
	}
	if err := s.contacts.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return wrapNotFound("delete contact", err)
	}
	publishEvent(ctx, s.events, queue.Event{Type: queue.ContactDeleted, UserID: ownerID, ContactID: id, OccurredAt: s.now().UTC()})
	return nil
}

// validID rejects ids that could never have been generated, so they answer
// 404 like any other unknown id.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func wrapNotFound(op string, err error) error {
	if errors.Is(err, repository.ErrContactNotFound) {
		return repository.ErrContactNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
