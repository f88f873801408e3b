package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"
	"fmt"

	"github.com/iliyamo/contacts-manager/internal/model"
)

// ContactRepo encapsulates all database queries related to contacts. Every
// statement except Create filters on both id and user_id, so a contact owned
// by someone else behaves exactly like a missing one.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo constructs a ContactRepo with the provided DB handle.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

const contactColumns = "id, user_id, full_name, gender, email, phone_number, created_at"

// Create inserts a new contact. ID, UserID and CreatedAt must already be set.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	const q = `INSERT INTO contacts (id, user_id, full_name, gender, email, phone_number, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		c.ID, c.UserID, c.FullName, string(c.Gender), c.Email, c.PhoneNumber, c.CreatedAt); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByIDAndOwner fetches a contact by id but only if it belongs to the
// specified owner. Otherwise ErrContactNotFound is returned.
func (r *ContactRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Contact, error) {
	const q = "SELECT " + contactColumns + " FROM contacts WHERE id = ? AND user_id = ?"
	var c model.Contact
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(
		&c.ID, &c.UserID, &c.FullName, &c.Gender, &c.Email, &c.PhoneNumber, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("select contact: %w", err)
	}
	return &c, nil
}

// ListByOwner returns all contacts of the owner, newest first. seq breaks
// ties between rows created within the same microsecond.
func (r *ContactRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Contact, error) {
	const q = "SELECT " + contactColumns + ` FROM contacts
	           WHERE user_id = ? ORDER BY created_at DESC, seq DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Contact, 0)
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.FullName, &c.Gender, &c.Email, &c.PhoneNumber, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

// Update replaces the four mutable fields if the contact belongs to
// c.UserID. The connection is opened with clientFoundRows=true so an
// unchanged row still counts as matched.
func (r *ContactRepo) Update(ctx context.Context, c *model.Contact) error {
	const q = `UPDATE contacts
	           SET full_name = ?, gender = ?, email = ?, phone_number = ?
	           WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.FullName, string(c.Gender), c.Email, c.PhoneNumber, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a contact owned by ownerID.
func (r *ContactRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}
