// Package apperr defines the closed set of error kinds the service can
// produce and the mapping from any error to an HTTP status code and a
// response body that is safe to send to the caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Kind identifies one variant of the error taxonomy.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindConstraint
	KindUnauthorized
	KindForbidden
	KindInternal
)

// MySQL server error numbers for the constraint violations we recognize.
const (
	mysqlDuplicateEntry     = 1062
	mysqlColumnCannotBeNull = 1048
	mysqlNoDefaultValue     = 1364
	mysqlForeignKeyChild    = 1452
)

// internalMessage is the only message a 5xx response ever carries.
const internalMessage = "Internal server error"

// FieldDetail names a single field-level rule violation.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a tagged application error. It carries its own HTTP status and a
// message that is safe to surface, so no caller ever needs to inspect
// message text to decide how to respond.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details []FieldDetail
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation builds a 400 error from a non-empty list of field violations.
func Validation(details []FieldDetail) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Details: details,
	}
}

// BadRequest builds a 400 error with a custom message and no field details,
// for payloads that were rejected before field rules could run.
func BadRequest(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Internal builds a 500 error wrapping its cause. The message is only ever
// written to the log; the response body is always the generic one.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// Body is the JSON shape of every error response.
type Body struct {
	Error           string        `json:"error"`
	Details         []FieldDetail `json:"details,omitempty"`
	Stack           string        `json:"stack,omitempty"`
	OriginalMessage string        `json:"originalMessage,omitempty"`
}

// Classify maps an error to an HTTP status code and a sanitized body.
//
// Tagged errors resolve directly from their own status. Untagged errors go
// through the legacy heuristics in order: message text for not-found and
// validation wording, recognized MySQL constraint numbers, message text for
// auth wording, and finally 500. Messages on 4xx responses are considered
// safe to surface; 5xx responses always carry the fixed generic message.
//
// When development is true the body additionally includes the original
// message and a stack trace of the classification site.
func Classify(err error, development bool) (int, Body) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		body.Error = internalMessage
	}
	if development {
		body.OriginalMessage = err.Error()
		body.Stack = string(debug.Stack())
	}
	return status, body
}

func classify(err error) (int, Body) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status, Body{Error: appErr.Message, Details: appErr.Details}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "does not exist"):
		return http.StatusNotFound, Body{Error: err.Error()}
	case strings.Contains(msg, "validation"), strings.Contains(msg, "invalid"), strings.Contains(msg, "required"):
		return http.StatusBadRequest, Body{Error: err.Error()}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return http.StatusConflict, Body{Error: "A contact with this value already exists"}
		case mysqlForeignKeyChild:
			return http.StatusBadRequest, Body{Error: "A referenced record does not exist"}
		case mysqlColumnCannotBeNull, mysqlNoDefaultValue:
			return http.StatusBadRequest, Body{Error: "A required field is missing"}
		}
	}

	switch {
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "authentication"):
		return http.StatusUnauthorized, Body{Error: err.Error()}
	case strings.Contains(msg, "forbidden"), strings.Contains(msg, "permission"):
		return http.StatusForbidden, Body{Error: err.Error()}
	}

	return http.StatusInternalServerError, Body{Error: internalMessage}
}
