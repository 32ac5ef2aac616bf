package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/errhandling/normalize"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.StatusCode != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.StatusCode)
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		code    ErrorCode
		want    string
	}{
		{"default text", http.StatusNotFound, "", ErrCodeNotFound, "Not Found"},
		{"custom text", http.StatusTeapot, "short and stout", ErrCodeHTTP, "short and stout"},
		{"gateway timeout", http.StatusGatewayTimeout, "", ErrCodeTimeout, "Gateway Timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FromStatus(tc.status, tc.message)
			if err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, err.Code)
			}
			if err.StatusMessage != tc.want || err.Message != tc.want {
				t.Errorf("expected message %q, got %q / %q", tc.want, err.StatusMessage, err.Message)
			}
		})
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("user", "123")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.StatusCode)
	}
	if err.Details()["resource"] != "user" {
		t.Errorf("expected resource=user, got %v", err.Details()["resource"])
	}
	if err.Details()["id"] != "123" {
		t.Errorf("expected id=123, got %v", err.Details()["id"])
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("user", "")
	if _, ok := err.Details()["id"]; ok {
		t.Error("expected no 'id' key in data when id is empty")
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("db connection lost")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.StatusCode)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
}

func TestAppError_Unauthorized_Success(t *testing.T) {
	err := Unauthorized("")
	if err.Code != ErrCodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", err.Code)
	}
	if err.Message != "Authentication required." {
		t.Errorf("expected default message, got %q", err.Message)
	}

	err2 := Unauthorized("bad token")
	if err2.Message != "bad token" {
		t.Errorf("expected custom message, got %q", err2.Message)
	}
}

func TestAppError_Forbidden_Success(t *testing.T) {
	err := Forbidden("")
	if err.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", err.StatusCode)
	}
	if !strings.Contains(err.Message, "permission") {
		t.Errorf("expected default message with 'permission', got %q", err.Message)
	}
}

func TestAppError_InvalidInput(t *testing.T) {
	err := InvalidInput("email", "must be valid")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details()["field"] != "email" {
		t.Errorf("expected field=email, got %v", err.Details()["field"])
	}

	if InvalidInput("", "bad").Data != nil {
		t.Error("expected no data without a field")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NotFound("item", "1").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("item", "1").WithDetails(map[string]any{"extra": "info"})
	if err.Details()["extra"] != "info" {
		t.Errorf("expected extra=info in data")
	}
	if err.Details()["resource"] != "item" {
		t.Error("expected original data to be preserved")
	}

	err.WithDetails(map[string]any{"another": "detail"})
	if err.Details()["another"] != "detail" || err.Details()["extra"] != "info" {
		t.Errorf("expected merged data, got %v", err.Details())
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := &AppError{}
	err.WithDetail("trace", "abc")
	if err.Details()["trace"] != "abc" {
		t.Errorf("expected trace=abc, got %v", err.Data)
	}
	err.WithDetail("trace", "def")
	if err.Details()["trace"] != "def" {
		t.Errorf("expected trace=def after overwrite")
	}
}

func TestAppError_WithDetail_NonMapDataUntouched(t *testing.T) {
	err := Validation("bad").WithData([]string{"a"})
	err.WithDetail("k", "v")
	if _, ok := err.Data.([]string); !ok {
		t.Errorf("expected slice payload to be kept, got %T", err.Data)
	}
	if err.Details() != nil {
		t.Error("expected Details() to be nil for non-map data")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := NotFound("user", "5").Error()
	if !strings.Contains(s, "NOT_FOUND") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "not found") {
		t.Errorf("expected error string to contain message, got %q", s)
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	if Internal(cause).Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if NotFound("x", "").Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"ServiceUnavailable", ServiceUnavailable("api"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"ConnectionFailed", ConnectionFailed("db"), ErrCodeConnectionFailed, http.StatusServiceUnavailable},
		{"Timeout", Timeout("query"), ErrCodeTimeout, http.StatusGatewayTimeout},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests},
		{"AlreadyExists", AlreadyExists("user"), ErrCodeAlreadyExists, http.StatusConflict},
		{"Conflict", Conflict("version mismatch"), ErrCodeConflict, http.StatusConflict},
		{"MissingField", MissingField("name"), ErrCodeMissingField, http.StatusBadRequest},
		{"InvalidFormat", InvalidFormat("date", "RFC3339"), ErrCodeInvalidFormat, http.StatusBadRequest},
		{"TokenExpired", TokenExpired(), ErrCodeTokenExpired, http.StatusUnauthorized},
		{"InvalidToken", InvalidToken(), ErrCodeInvalidToken, http.StatusUnauthorized},
		{"ExternalServiceError", ExternalServiceError("stripe", nil), ErrCodeExternalService, http.StatusBadGateway},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.StatusCode)
			}
		})
	}
}

func TestAppError_NormalizesAsFramework(t *testing.T) {
	cause := fmt.Errorf("disk full")
	appErr := NotFound("user", "7").WithCause(cause).WithStatusMessage("Gone Missing")

	n, err := normalize.Normalize(appErr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != normalize.KindFramework {
		t.Fatalf("expected framework kind, got %s", n.Kind)
	}
	if n.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", n.StatusCode)
	}
	if n.StatusMessage != "Gone Missing" {
		t.Errorf("expected status message, got %q", n.StatusMessage)
	}
	if n.Message != appErr.Message {
		t.Errorf("expected message %q, got %q", appErr.Message, n.Message)
	}
	if n.Name != normalize.NameFramework {
		t.Errorf("expected name %s, got %s", normalize.NameFramework, n.Name)
	}
	if n.Cause != cause {
		t.Errorf("expected cause to carry through, got %v", n.Cause)
	}
	if d, ok := n.Data.(map[string]any); !ok || d["resource"] != "user" {
		t.Errorf("expected data to carry through, got %v", n.Data)
	}
}

func TestAppError_StatusMessageFallsBackToMessage(t *testing.T) {
	n, err := normalize.Normalize(Conflict("version mismatch"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.StatusMessage != "version mismatch" {
		t.Errorf("expected message fallback, got %q", n.StatusMessage)
	}
}

func TestAppError_JSONShape(t *testing.T) {
	b, err := json.Marshal(FromStatus(http.StatusForbidden, ""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["statusCode"] != float64(http.StatusForbidden) {
		t.Errorf("expected statusCode in JSON, got %v", m)
	}
	if !normalize.IsFramework(m) {
		t.Errorf("expected decoded JSON to classify as framework, got %s", normalize.Classify(m))
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := NotFound("user", "42").ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("expected code NOT_FOUND in response, got %s", resp.Error.Code)
	}
	if resp.Error.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 in response, got %d", resp.Error.StatusCode)
	}
	if resp.Error.StatusMessage != "Not Found" {
		t.Errorf("expected default status text, got %q", resp.Error.StatusMessage)
	}
	if d, ok := resp.Error.Data.(map[string]any); !ok || d["resource"] != "user" {
		t.Error("expected resource=user in response data")
	}
}

func TestAppError_IsAppError_Success(t *testing.T) {
	appErr := NotFound("x", "")
	if !IsAppError(appErr) {
		t.Error("expected IsAppError to return true for AppError")
	}
	if !IsAppError(fmt.Errorf("wrapped: %w", appErr)) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}
	if IsAppError(fmt.Errorf("plain error")) {
		t.Error("expected IsAppError to return false for plain error")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Internal(nil))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := NotFound("item", "1")
	if Wrap(orig) != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}
	if Wrap(fmt.Errorf("outer: %w", orig)).Code != ErrCodeNotFound {
		t.Error("Wrap should find an AppError in the chain")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal || got.Cause != plain {
		t.Errorf("expected internal error wrapping the original, got %+v", got)
	}
}

func TestFormatResourceError(t *testing.T) {
	err := FormatResourceError("user", 42)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details()["id"] != "42" {
		t.Errorf("expected id=42, got %v", err.Details()["id"])
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = NotFound("test", "1")
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Error("stderrors.As should work with AppError")
	}
}
