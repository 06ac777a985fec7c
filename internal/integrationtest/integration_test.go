// Package integrationtest runs the full stack against a real database. The
// tests skip unless DB_DSN points at a MySQL instance with the contacts
// schema applied (see scripts/database.sql).
package integrationtest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdesk/contacts-service/internal/config"
	"github.com/contactdesk/contacts-service/internal/repository"
	"github.com/contactdesk/contacts-service/internal/server"
	"github.com/contactdesk/contacts-service/internal/service"
)

// setupRouter connects to the configured database and wires the full
// service. It skips the calling test when no database is configured.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	if os.Getenv("DB_DSN") == "" {
		t.Skip("set DB_DSN to run integration tests against a real database")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	sqlDB, err := sql.Open("mysql", cfg.DSN())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, sqlDB.Ping())

	contactRepo, err := repository.NewContactRepository(sqlx.NewDb(sqlDB, "mysql"))
	require.NoError(t, err)
	contactService := service.NewContactService(contactRepo)

	gin.SetMode(gin.ReleaseMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return server.New(contactService, cfg, log).SetupHttpRouter()
}

func run(router *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request, _ := http.NewRequest(method, url, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(recorder, request)
	return recorder
}

// TestContactHappyPath walks one contact through POST, GET, PUT, and DELETE
// with valid data.
func TestContactHappyPath(t *testing.T) {
	router := setupRouter(t)

	postRecorder := run(router, "POST", "/api/contacts", `
		{
			"firstName": "Erika",
			"lastName": "Mustermann",
			"phone": "+49 0815 471100"
		}
	`)
	assert.Equal(t, http.StatusCreated, postRecorder.Code)
	var postBody map[string]any
	json.Unmarshal(postRecorder.Body.Bytes(), &postBody)
	assert.Equal(t, "Erika", postBody["firstName"])
	assert.Equal(t, "Mustermann", postBody["lastName"])
	assert.Equal(t, "+49 0815 471100", postBody["phone"])
	assert.Nil(t, postBody["email"])
	assert.NotEmpty(t, postBody["createdAt"])
	assert.Equal(t, postBody["createdAt"], postBody["updatedAt"])
	idAsString := fmt.Sprintf("%.0f", postBody["id"])

	getRecorder := run(router, "GET", "/api/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var getBody map[string]any
	json.Unmarshal(getRecorder.Body.Bytes(), &getBody)
	assert.Equal(t, postBody["id"], getBody["id"])
	assert.Equal(t, "Erika", getBody["firstName"])

	putRecorder := run(router, "PUT", "/api/contacts/"+idAsString, `
		{
			"firstName": "Erika",
			"lastName": "Gabler",
			"company": "Musterfirma GmbH"
		}
	`)
	assert.Equal(t, http.StatusOK, putRecorder.Code)
	var putBody map[string]any
	json.Unmarshal(putRecorder.Body.Bytes(), &putBody)
	assert.Equal(t, "Gabler", putBody["lastName"])
	assert.Equal(t, "Musterfirma GmbH", putBody["company"])
	// The update is a full replace, so the phone from the POST is gone.
	assert.Nil(t, putBody["phone"])

	deleteRecorder := run(router, "DELETE", "/api/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusNoContent, deleteRecorder.Code)

	deleteAgainRecorder := run(router, "DELETE", "/api/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusNotFound, deleteAgainRecorder.Code)
}

// TestContactInvalidEmailLeavesNoRow verifies a rejected POST creates
// nothing.
func TestContactInvalidEmailLeavesNoRow(t *testing.T) {
	router := setupRouter(t)

	listBefore := run(router, "GET", "/api/contacts", "")
	assert.Equal(t, http.StatusOK, listBefore.Code)
	var before []map[string]any
	json.Unmarshal(listBefore.Body.Bytes(), &before)

	postRecorder := run(router, "POST", "/api/contacts", `
		{
			"firstName": "Jane",
			"lastName": "Smith",
			"email": "bad"
		}
	`)
	assert.Equal(t, http.StatusBadRequest, postRecorder.Code)
	var postBody map[string]any
	json.Unmarshal(postRecorder.Body.Bytes(), &postBody)
	assert.Equal(t, "Validation failed", postBody["error"])

	listAfter := run(router, "GET", "/api/contacts", "")
	var after []map[string]any
	json.Unmarshal(listAfter.Body.Bytes(), &after)
	assert.Equal(t, len(before), len(after))
}
