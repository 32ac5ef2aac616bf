package validation

import (
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/errhandling/errors"
	"github.com/kbukum/errhandling/normalize"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "John")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	v := New()
	v.MaxLength("desc", "short", 10)
	if v.HasErrors() {
		t.Error("expected no error for string within max length")
	}

	v2 := New()
	v2.MaxLength("desc", "this is too long", 5)
	if !v2.HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorRange(t *testing.T) {
	v := New()
	v.Range("age", 25, 18, 100)
	if v.HasErrors() {
		t.Error("expected no error for value in range")
	}

	v2 := New()
	v2.Range("age", 5, 18, 100)
	if !v2.HasErrors() {
		t.Error("expected error for value below range")
	}

	v3 := New()
	v3.Range("age", 101, 18, 100)
	if !v3.HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorPattern(t *testing.T) {
	v := New()
	v.Pattern("code", "ABC123", `^[A-Z0-9]+$`)
	if v.HasErrors() {
		t.Error("expected no error for matching pattern")
	}

	v2 := New()
	v2.Pattern("code", "abc", `^[A-Z]+$`)
	if !v2.HasErrors() {
		t.Error("expected error for non-matching pattern")
	}

	// Empty value should be skipped
	v3 := New()
	v3.Pattern("code", "", `^[A-Z]+$`)
	if v3.HasErrors() {
		t.Error("expected no error for empty value with pattern")
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("status", "active", []string{"active", "inactive"})
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("status", "unknown", []string{"active", "inactive"})
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	// Empty should be skipped
	v3 := New()
	v3.OneOf("status", "", []string{"active"})
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "field", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "field", "custom error")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "custom error" {
		t.Errorf("expected 'custom error', got %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("name", "John")
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil for valid input, got %v", err)
	}

	v2 := New()
	v2.Required("name", "")
	v2.Required("email", "")
	appErr := v2.AppError()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", appErr.StatusCode)
	}
	if appErr.StatusMessage != StatusMessage {
		t.Errorf("expected status message %q, got %q", StatusMessage, appErr.StatusMessage)
	}
	fields, ok := appErr.Data.([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors as data, got %#v", appErr.Data)
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "email") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorValidate_DataIsACopy(t *testing.T) {
	v := New().Required("name", "")
	appErr := v.AppError()
	v.AddError("later", "added after")

	if fields := appErr.Data.([]FieldError); len(fields) != 1 {
		t.Errorf("expected data to be unaffected by later errors, got %v", fields)
	}
}

func TestValidationError_NormalizesAsFramework(t *testing.T) {
	err := New().Required("name", "").Validate()

	n, nerr := normalize.Normalize(err)
	if nerr != nil {
		t.Fatalf("unexpected error: %v", nerr)
	}
	if n.Kind != normalize.KindFramework {
		t.Fatalf("expected framework kind, got %s", n.Kind)
	}
	if n.StatusCode != http.StatusBadRequest || n.StatusMessage != StatusMessage {
		t.Errorf("unexpected status: %d %q", n.StatusCode, n.StatusMessage)
	}
	fields, derr := normalize.DataAs[[]FieldError](n)
	if derr != nil {
		t.Fatalf("DataAs: %v", derr)
	}
	if len(fields) != 1 || fields[0].Field != "name" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "John").MaxLength("name", "John", 100).Range("age", 25, 18, 130)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestStructValidateValid(t *testing.T) {
	type User struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	err := Validate(User{Name: "John", Email: "john@example.com"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type User struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	err := Validate(User{Name: "", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "name") {
		t.Errorf("expected error to mention 'name', got %q", err.Error())
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	fields := appErr.Data.([]FieldError)
	want := []FieldError{
		{Field: "name", Tag: "required", Message: "is required"},
		{Field: "email", Tag: "email", Message: "must be a valid email address"},
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d: expected %+v, got %+v", i, want[i], fields[i])
		}
	}
}

func TestStructValidate_FieldNameFallback(t *testing.T) {
	type Input struct {
		MaxRetries int `validate:"gte=1"`
	}

	err := Validate(Input{})
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %v", err)
	}
	fields := appErr.Data.([]FieldError)
	if fields[0].Field != "max_retries" {
		t.Errorf("expected snake_case field name, got %q", fields[0].Field)
	}
	if fields[0].Message != "must be at least 1" {
		t.Errorf("unexpected message %q", fields[0].Message)
	}
}

func TestStructValidate_NotAStruct(t *testing.T) {
	if err := Validate("plain string"); err == nil {
		t.Error("expected error for non-struct input")
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type Input struct {
		Code string `json:"code" validate:"required,min=3,max=10"`
	}

	if err := Validate(Input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	if err := Validate(Input{Code: "ab"}); err == nil {
		t.Error("expected error for code too short")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":       "name",
		"BaseURL":    "base_u_r_l",
		"MaxRetries": "max_retries",
		"already":    "already",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
