package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdesk/contacts-service/internal/model"
)

var contactTestColumns = []string{"id", "first_name", "last_name", "email", "phone", "company", "notes", "created_at", "updated_at"}

func newMockRepository(t *testing.T) (*ContactRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectPrepare("SELECT (.+) FROM contacts ORDER BY last_name")
	mock.ExpectPrepare("SELECT (.+) FROM contacts WHERE id")
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("UPDATE contacts")
	mock.ExpectPrepare("DELETE FROM contacts WHERE id")

	repo, err := NewContactRepository(sqlx.NewDb(db, "mysql"))
	require.NoError(t, err)
	return repo, mock, func() { db.Close() }
}

// TestFindByIdAbsent verifies that a missing row is a normal nil return,
// not an error.
func TestFindByIdAbsent(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id").
		WithArgs(int64(999)).
		WillReturnRows(mock.NewRows(contactTestColumns))

	contact, err := repo.FindById(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, contact)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestFindByIdScansOptionalNulls verifies NULL columns scan into nil
// pointers.
func TestFindByIdScansOptionalNulls(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	at := time.Date(2024, time.May, 14, 9, 30, 0, 0, time.UTC)
	rows := mock.NewRows(contactTestColumns).
		AddRow(5, "John", "Doe", "john@example.com", nil, nil, nil, at, at)
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	contact, err := repo.FindById(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, int64(5), contact.Id)
	require.NotNil(t, contact.Email)
	assert.Equal(t, "john@example.com", *contact.Email)
	assert.Nil(t, contact.Phone)
	assert.Nil(t, contact.Company)
	assert.Nil(t, contact.Notes)
	assert.Equal(t, at, contact.CreatedAt)
}

// TestDeleteReportsRemoval verifies the boolean contract of Delete.
func TestDeleteReportsRemoval(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectExec("DELETE FROM contacts WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM contacts WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(context.Background(), 5)
	assert.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreateReadsBackStoredRow verifies the insert is followed by a select
// for the storage-assigned id and timestamps.
func TestCreateReadsBackStoredRow(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("John", "Doe", nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	at := time.Date(2024, time.May, 14, 9, 30, 0, 0, time.UTC)
	rows := mock.NewRows(contactTestColumns).
		AddRow(11, "John", "Doe", nil, nil, nil, nil, at, at)
	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id").
		WithArgs(int64(11)).
		WillReturnRows(rows)

	contact, err := repo.Create(context.Background(), model.ContactFields{FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), contact.Id)
	assert.Equal(t, at, contact.CreatedAt)
	assert.Equal(t, at, contact.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestErrorsBubbleUntranslated verifies the repository does not classify
// storage failures.
func TestErrorsBubbleUntranslated(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY last_name").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindAll(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
