// Package server binds the REST API surface to the contact service. The
// handlers are purely mechanical: they validate path parameters, decode the
// body, call the service, and render the result or the classified error.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/contactdesk/contacts-service/internal/apperr"
	"github.com/contactdesk/contacts-service/internal/config"
	"github.com/contactdesk/contacts-service/internal/service"
	"github.com/contactdesk/contacts-service/internal/validate"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	contacts *service.ContactService
	cfg      *config.Config
	log      *slog.Logger
}

func New(contacts *service.ContactService, cfg *config.Config, log *slog.Logger) *Server {
	return &Server{contacts: contacts, cfg: cfg, log: log}
}

// SetupHttpRouter initializes the REST API router and registers all
// endpoints and middleware.
func (s *Server) SetupHttpRouter() *gin.Engine {
	router := gin.New()
	router.Use(s.requestLogger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.log.Error("panic recovered", "panic", recovered, "method", c.Request.Method, "url", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, apperr.Body{Error: "Internal server error"})
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{s.cfg.CORSOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	router.GET("/health", s.health)

	api := router.Group("/api")
	api.GET("/contacts", s.findAllContacts)
	api.GET("/contacts/:id", s.findContactByID)
	api.POST("/contacts", s.createContact)
	api.PUT("/contacts/:id", s.updateContactByID)
	api.DELETE("/contacts/:id", s.deleteContactByID)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "path": c.Request.URL.Path})
	})
	return router
}

// requestLogger logs one line per request with the fields the error log
// also carries, so requests and their errors correlate.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"url", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}

// renderError logs the error and writes the classified status and body.
// This is the single place where 5xx messages are scrubbed.
func (s *Server) renderError(c *gin.Context, err error) {
	status, body := apperr.Classify(err, s.cfg.IsDevelopment())
	attrs := []any{
		"error", err.Error(),
		"status", status,
		"method", c.Request.Method,
		"url", c.Request.URL.Path,
		"ip", c.ClientIP(),
		"user_agent", c.Request.UserAgent(),
	}
	if len(body.Details) > 0 {
		attrs = append(attrs, "details", body.Details)
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", attrs...)
	} else {
		s.log.Warn("request rejected", attrs...)
	}
	c.AbortWithStatusJSON(status, body)
}

// contactID validates the :id path parameter: present, digits only, and a
// positive integer without leading zeros.
func (s *Server) contactID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if err := validate.ContactID(raw); err != nil {
		s.renderError(c, err)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.renderError(c, apperr.Validation([]apperr.FieldDetail{{Field: "id", Message: "ID must be a positive integer"}}))
		return 0, false
	}
	return id, true
}

// bindPayload decodes the request body into an untyped payload so the
// validation rule set can distinguish missing, null, and mistyped fields.
func (s *Server) bindPayload(c *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.renderError(c, apperr.BadRequest("Invalid JSON payload"))
		return nil, false
	}
	return payload, true
}

// health responds with a liveness body.
//
// Example REST API call:
//
//	> curl http://localhost:8080/health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// findAllContacts responds with the list of all contacts as JSON, ordered
// by last name and then first name.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts
func (s *Server) findAllContacts(c *gin.Context) {
	contacts, err := s.contacts.FindAll(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// findContactByID locates the contact whose ID matches the id parameter of
// the request URL and returns it as JSON.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56
func (s *Server) findContactByID(c *gin.Context) {
	id, ok := s.contactID(c)
	if !ok {
		return
	}
	contact, err := s.contacts.FindById(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// createContact validates the contact in the request's JSON and inserts it.
// It responds with the full contact data including the newly assigned id
// and timestamps.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com"}'
func (s *Server) createContact(c *gin.Context) {
	payload, ok := s.bindPayload(c)
	if !ok {
		return
	}
	contact, err := s.contacts.Create(c.Request.Context(), payload)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// updateContactByID replaces the contact whose ID matches the id parameter
// of the request URL with the submitted fields and responds with the new
// version of the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"firstName": "Erika", "lastName": "Gabler"}'
func (s *Server) updateContactByID(c *gin.Context) {
	id, ok := s.contactID(c)
	if !ok {
		return
	}
	payload, ok := s.bindPayload(c)
	if !ok {
		return
	}
	contact, err := s.contacts.Update(c.Request.Context(), id, payload)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// deleteContactByID deletes the contact whose ID matches the id parameter
// of the request URL and responds with an empty body.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "DELETE"
func (s *Server) deleteContactByID(c *gin.Context) {
	id, ok := s.contactID(c)
	if !ok {
		return
	}
	if err := s.contacts.Remove(c.Request.Context(), id); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
