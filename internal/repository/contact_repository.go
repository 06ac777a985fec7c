// Package repository translates between application-level contact fields and
// the storage schema. It issues parameterized statements only and never
// classifies errors; raw storage failures bubble up to the caller.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/contactdesk/contacts-service/internal/model"
)

// ContactRepository provides row operations on the contacts table through a
// set of statements prepared once at construction time.
type ContactRepository struct {
	db         *sqlx.DB
	selectAll  *sqlx.Stmt
	selectByID *sqlx.Stmt
	insert     *sqlx.NamedStmt
	update     *sqlx.NamedStmt
	deleteByID *sqlx.Stmt
}

// contactColumns is the column list shared by every select, in schema order.
const contactColumns = "id, first_name, last_name, email, phone, company, notes, created_at, updated_at"

// updateArgs binds the named update statement: the full writable field set
// plus the row id.
type updateArgs struct {
	model.ContactFields
	Id int64 `db:"id"`
}

// NewContactRepository prepares all statements against the given database
// handle. Prepared statements offer a significant speed increase if executed
// many times.
func NewContactRepository(db *sqlx.DB) (*ContactRepository, error) {
	r := &ContactRepository{db: db}
	var err error
	r.selectAll, err = db.Preparex(`
		SELECT ` + contactColumns + `
		FROM contacts
		ORDER BY last_name ASC, first_name ASC
	`)
	if err != nil {
		return nil, err
	}
	r.selectByID, err = db.Preparex(`
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = ?
	`)
	if err != nil {
		return nil, err
	}
	r.insert, err = db.PrepareNamed(`
		INSERT INTO contacts (first_name, last_name, email, phone, company, notes)
		VALUES (:first_name, :last_name, :email, :phone, :company, :notes)
	`)
	if err != nil {
		return nil, err
	}
	r.update, err = db.PrepareNamed(`
		UPDATE contacts
		SET first_name = :first_name,
			last_name = :last_name,
			email = :email,
			phone = :phone,
			company = :company,
			notes = :notes
		WHERE id = :id
	`)
	if err != nil {
		return nil, err
	}
	r.deleteByID, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindAll returns every contact ordered by last name, then first name.
func (r *ContactRepository) FindAll(ctx context.Context) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := r.selectAll.SelectContext(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindById returns the contact with the given id, or nil if no such row
// exists. Absence is a normal return, not an error.
func (r *ContactRepository) FindById(ctx context.Context, id int64) (*model.Contact, error) {
	var contact model.Contact
	if err := r.selectByID.GetContext(ctx, &contact, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// Create inserts a new contact and returns the stored row, including the
// assigned id and the timestamps set by the storage layer.
func (r *ContactRepository) Create(ctx context.Context, fields model.ContactFields) (*model.Contact, error) {
	result, err := r.insert.ExecContext(ctx, fields)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindById(ctx, id)
}

// Update replaces every writable field of the contact with the given id and
// returns the stored row after the write. It returns nil if the id does not
// exist. The storage layer refreshes the update timestamp.
func (r *ContactRepository) Update(ctx context.Context, id int64, fields model.ContactFields) (*model.Contact, error) {
	// MySQL reports zero affected rows for a write that changes no values,
	// so absence is determined by the read-back instead of RowsAffected.
	if _, err := r.update.ExecContext(ctx, updateArgs{ContactFields: fields, Id: id}); err != nil {
		return nil, err
	}
	return r.FindById(ctx, id)
}

// Delete removes the contact with the given id and reports whether a row
// was actually removed.
func (r *ContactRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.deleteByID.ExecContext(ctx, id)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}
