package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
// Returns nil when the struct passes all its validate tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// FieldErrors converts a validator error into the per-field message map
// the error envelope carries, keyed by the JSON-style snake_case field
// name. Non-validator errors produce a single generic entry.
func FieldErrors(err error) map[string][]string {
	fieldErrors := make(map[string][]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fieldErrors["request"] = []string{"invalid request"}
		return fieldErrors
	}

	for _, fe := range validationErrs {
		field := toSnakeCase(fe.Field())
		fieldErrors[field] = append(fieldErrors[field], tagMessage(field, fe))
	}
	return fieldErrors
}

// tagMessage maps a validation tag to a user-facing message.
func tagMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "The " + field + " field is required."
	case "email":
		return "The " + field + " must be a valid email address."
	case "min":
		return "The " + field + " must be at least " + fe.Param() + " characters."
	case "max":
		return "The " + field + " may not be greater than " + fe.Param() + " characters."
	case "gte":
		return "The " + field + " must be at least " + fe.Param() + "."
	case "lte":
		return "The " + field + " may not be greater than " + fe.Param() + "."
	default:
		return "The " + field + " field is invalid."
	}
}

// toSnakeCase converts a Go field name (FirstName) to its JSON form
// (first_name).
func toSnakeCase(s string) string {
	out := make([]byte, 0, len(s)+4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
