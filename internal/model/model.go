package model

import "time"

// Contact is the data structure for a person that we keep in touch with.
// First and last name are always present; the remaining content fields are
// optional and nil when absent.
type Contact struct {
	Id        int64     `json:"id"                db:"id"`
	FirstName string    `json:"firstName"         db:"first_name"`
	LastName  string    `json:"lastName"          db:"last_name"`
	Email     *string   `json:"email,omitempty"   db:"email"`
	Phone     *string   `json:"phone,omitempty"   db:"phone"`
	Company   *string   `json:"company,omitempty" db:"company"`
	Notes     *string   `json:"notes,omitempty"   db:"notes"`
	CreatedAt time.Time `json:"createdAt"         db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"         db:"updated_at"`
}

// ContactFields holds the writable fields of a contact after validation and
// normalization. Optional fields are nil when absent or submitted empty.
type ContactFields struct {
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Email     *string `db:"email"`
	Phone     *string `db:"phone"`
	Company   *string `db:"company"`
	Notes     *string `db:"notes"`
}
