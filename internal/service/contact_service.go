// Package service enforces the existence and validation invariants around
// repository calls. It is the only component with business logic: every
// write passes through the shared validation rule set, and every operation
// on a single contact checks existence before anything else touches the row.
package service

import (
	"context"

	"github.com/contactdesk/contacts-service/internal/apperr"
	"github.com/contactdesk/contacts-service/internal/model"
	"github.com/contactdesk/contacts-service/internal/validate"
)

// ContactStore is the persistence surface the service depends on. The sqlx
// repository satisfies it in production; tests substitute a fake.
type ContactStore interface {
	FindAll(ctx context.Context) ([]model.Contact, error)
	FindById(ctx context.Context, id int64) (*model.Contact, error)
	Create(ctx context.Context, fields model.ContactFields) (*model.Contact, error)
	Update(ctx context.Context, id int64, fields model.ContactFields) (*model.Contact, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ContactService orchestrates validation, existence checks, and repository
// calls for the contact entity.
type ContactService struct {
	store ContactStore
}

func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

// FindAll returns all contacts in their storage order.
func (s *ContactService) FindAll(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve contacts", err)
	}
	return contacts, nil
}

// FindById returns the contact with the given id or a not-found error.
func (s *ContactService) FindById(ctx context.Context, id int64) (*model.Contact, error) {
	contact, err := s.store.FindById(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve contact", err)
	}
	if contact == nil {
		return nil, apperr.NotFound("Contact not found")
	}
	return contact, nil
}

// Create validates the payload and persists a new contact. A payload that
// fails validation never reaches the repository.
func (s *ContactService) Create(ctx context.Context, payload map[string]any) (*model.Contact, error) {
	if details := validate.Contact(payload); len(details) > 0 {
		return nil, apperr.Validation(details)
	}
	contact, err := s.store.Create(ctx, validate.Normalize(payload))
	if err != nil {
		return nil, apperr.Internal("Failed to create contact", err)
	}
	return contact, nil
}

// Update replaces the contact with the given id. The existence check runs
// strictly before validation, and validation strictly before the write.
func (s *ContactService) Update(ctx context.Context, id int64, payload map[string]any) (*model.Contact, error) {
	existing, err := s.store.FindById(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to update contact", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("Contact not found")
	}
	if details := validate.Contact(payload); len(details) > 0 {
		return nil, apperr.Validation(details)
	}
	updated, err := s.store.Update(ctx, id, validate.Normalize(payload))
	if err != nil {
		return nil, apperr.Internal("Failed to update contact", err)
	}
	if updated == nil {
		// The row vanished between the existence check and the write.
		return nil, apperr.NotFound("Contact not found")
	}
	return updated, nil
}

// Remove deletes the contact with the given id, checking existence first.
func (s *ContactService) Remove(ctx context.Context, id int64) error {
	existing, err := s.store.FindById(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to delete contact", err)
	}
	if existing == nil {
		return apperr.NotFound("Contact not found")
	}
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("Failed to delete contact", err)
	}
	if !removed {
		return apperr.NotFound("Contact not found")
	}
	return nil
}
