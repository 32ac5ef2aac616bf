package httpclient

import (
	"fmt"
	"net/http"

	"github.com/kbukum/errhandling/validation"
)

// AuthType identifies the authentication method.
type AuthType string

const (
	// AuthNone disables authentication.
	AuthNone AuthType = ""
	// AuthBearer uses Bearer token authentication.
	AuthBearer AuthType = "bearer"
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic AuthType = "basic"
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey AuthType = "api_key"
	// AuthCustom uses a custom authentication function.
	AuthCustom AuthType = "custom"
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type     AuthType `yaml:"type" mapstructure:"type" json:"type" validate:"omitempty,oneof=bearer basic api_key custom"`
	Token    string   `yaml:"token" mapstructure:"token" json:"-"`
	Username string   `yaml:"username" mapstructure:"username" json:"username,omitempty"`
	Password string   `yaml:"password" mapstructure:"password" json:"-"`
	Key      string   `yaml:"key" mapstructure:"key" json:"-"`
	// In is "header" (default) or "query" for AuthAPIKey.
	In string `yaml:"in" mapstructure:"in" json:"in,omitempty" validate:"omitempty,oneof=header query"`
	// Name is the header or query parameter name. Defaults to "X-API-Key".
	Name string `yaml:"name" mapstructure:"name" json:"name,omitempty"`
	// Apply modifies the request (AuthCustom).
	Apply func(*http.Request) `yaml:"-" mapstructure:"-" json:"-"`
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// Validate checks that the credentials required by Type are present.
func (a *AuthConfig) Validate() error {
	if err := validation.Validate(a); err != nil {
		return fmt.Errorf("httpclient: auth: %w", err)
	}
	switch a.Type {
	case AuthBearer:
		if a.Token == "" {
			return fmt.Errorf("httpclient: auth: bearer token is required")
		}
	case AuthBasic:
		if a.Username == "" {
			return fmt.Errorf("httpclient: auth: basic username is required")
		}
	case AuthAPIKey:
		if a.Key == "" {
			return fmt.Errorf("httpclient: auth: api key is required")
		}
	case AuthCustom:
		if a.Apply == nil {
			return fmt.Errorf("httpclient: auth: custom auth needs an Apply func")
		}
	}
	return nil
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}
