// Package validate holds the contact validation rule set. It is the single
// definition of the field rules, shared by every caller that accepts contact
// data, so the rules cannot drift between entry points.
//
// Validation is pure and synchronous: it inspects only the submitted payload
// and never consults persisted state.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/contactdesk/contacts-service/internal/apperr"
	"github.com/contactdesk/contacts-service/internal/model"
)

var (
	// emailPattern is the deliberately simple local@domain.tld shape.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// idPattern matches a positive integer without leading zeros.
	idPattern = regexp.MustCompile(`^[1-9][0-9]*$`)
)

const minPhoneDigits = 10

// IsValidEmail reports whether s has the shape local@domain.tld. It never
// fails; any input yields a verdict.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s consists only of digits, spaces, and the
// characters + - ( ), and contains at least ten digits.
func IsValidPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}

// rule checks one field of the untyped payload and appends its violations.
type rule struct {
	field string
	check func(field string, value any, present bool) []apperr.FieldDetail
}

// contactRules is evaluated in declaration order; all violations are
// collected, never short-circuited.
var contactRules = []rule{
	{"firstName", requiredName("First name")},
	{"lastName", requiredName("Last name")},
	{"email", optional(func(field, s string) []apperr.FieldDetail {
		var details []apperr.FieldDetail
		if !IsValidEmail(s) {
			details = append(details, apperr.FieldDetail{Field: field, Message: "Invalid email format"})
		}
		if utf8.RuneCountInString(s) > 100 {
			details = append(details, apperr.FieldDetail{Field: field, Message: "Email must be 100 characters or less"})
		}
		return details
	})},
	{"phone", optional(func(field, s string) []apperr.FieldDetail {
		if !IsValidPhone(s) {
			return []apperr.FieldDetail{{Field: field, Message: "Invalid phone number format"}}
		}
		return nil
	})},
	{"company", optional(maxLen("Company", 100))},
	{"notes", optional(maxLen("Notes", 500))},
}

// Contact evaluates the full rule set against a candidate payload and
// returns the ordered list of violations. An empty result means the payload
// passes. Non-string values fail with a type-specific message rather than a
// format or length message.
func Contact(payload map[string]any) []apperr.FieldDetail {
	var details []apperr.FieldDetail
	for _, r := range contactRules {
		value, present := payload[r.field]
		details = append(details, r.check(r.field, value, present)...)
	}
	return details
}

// requiredName builds the check for firstName and lastName: present,
// a string, non-blank after trimming, and at most 50 characters.
func requiredName(label string) func(string, any, bool) []apperr.FieldDetail {
	return func(field string, value any, present bool) []apperr.FieldDetail {
		if !present || value == nil {
			return []apperr.FieldDetail{{Field: field, Message: label + " is required"}}
		}
		s, ok := value.(string)
		if !ok {
			return []apperr.FieldDetail{{Field: field, Message: label + " must be a string"}}
		}
		var details []apperr.FieldDetail
		if strings.TrimSpace(s) == "" {
			details = append(details, apperr.FieldDetail{Field: field, Message: label + " is required"})
		}
		if utf8.RuneCountInString(strings.TrimSpace(s)) > 50 {
			details = append(details, apperr.FieldDetail{Field: field, Message: label + " must be 50 characters or less"})
		}
		return details
	}
}

// optional wraps a string check so that absent, null, and empty values pass
// trivially, while non-string values fail with the type-specific message.
func optional(check func(field, s string) []apperr.FieldDetail) func(string, any, bool) []apperr.FieldDetail {
	return func(field string, value any, present bool) []apperr.FieldDetail {
		if !present || value == nil {
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return []apperr.FieldDetail{{Field: field, Message: capitalize(field) + " must be a string"}}
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return check(field, s)
	}
}

func maxLen(label string, max int) func(field, s string) []apperr.FieldDetail {
	return func(field, s string) []apperr.FieldDetail {
		if utf8.RuneCountInString(s) > max {
			return []apperr.FieldDetail{{
				Field:   field,
				Message: label + " must be " + strconv.Itoa(max) + " characters or less",
			}}
		}
		return nil
	}
}

// Normalize converts a payload that passed the rule set into the canonical
// field representation: names are trimmed and optional fields collapse to
// nil when absent or blank. This is the single place where the empty/null/
// absent distinction is resolved.
func Normalize(payload map[string]any) model.ContactFields {
	fields := model.ContactFields{
		FirstName: strings.TrimSpace(stringAt(payload, "firstName")),
		LastName:  strings.TrimSpace(stringAt(payload, "lastName")),
	}
	fields.Email = optionalAt(payload, "email")
	fields.Phone = optionalAt(payload, "phone")
	fields.Company = optionalAt(payload, "company")
	fields.Notes = optionalAt(payload, "notes")
	return fields
}

// ContactID checks a path parameter for the contact id: present, digits
// only, positive, no leading zeros. It returns nil when the id is valid.
func ContactID(raw string) *apperr.Error {
	if raw == "" {
		return apperr.Validation([]apperr.FieldDetail{{Field: "id", Message: "ID is required"}})
	}
	if !idPattern.MatchString(raw) {
		return apperr.Validation([]apperr.FieldDetail{{Field: "id", Message: "ID must be a positive integer"}})
	}
	return nil
}

func stringAt(payload map[string]any, field string) string {
	s, _ := payload[field].(string)
	return s
}

func optionalAt(payload map[string]any, field string) *string {
	s := strings.TrimSpace(stringAt(payload, field))
	if s == "" {
		return nil
	}
	return &s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

