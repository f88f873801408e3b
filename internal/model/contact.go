package model

import "time"

// Gender is the enumerated gender of a contact.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the enumerated values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Contact represents a row in the `contacts` table. Every contact belongs to
// exactly one user through UserID.
type Contact struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	FullName    string    `json:"fullName"`
	Gender      Gender    `json:"gender"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContactFields are the mutable fields of a contact. Update replaces all four.
// The max lengths are the column sizes of the contacts table.
type ContactFields struct {
	FullName    string `json:"fullName" validate:"required,max=255"`
	Gender      Gender `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Email       string `json:"email" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=64"`
}

// Apply copies the mutable fields onto c.
func (f ContactFields) Apply(c *Contact) {
	c.FullName = f.FullName
	c.Gender = f.Gender
	c.Email = f.Email
	c.PhoneNumber = f.PhoneNumber
}
