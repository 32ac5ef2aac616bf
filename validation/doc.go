// Package validation checks structs and individual values and reports
// failures as *errors.AppError values with status 400 and the failing fields
// as data, so callers can route them like any other framework error.
//
// Struct validation uses go-playground/validator tags:
//
//	type Config struct {
//	    BaseURL string `json:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(&cfg)
//
// The fluent Validator covers ad-hoc checks:
//
//	err := validation.New().
//	    Required("url", target).
//	    OneOf("method", method, []string{"GET", "POST"}).
//	    Validate()
package validation
