package httpclient

import (
	"context"
	"crypto/tls"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCA(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	block := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(path, block, 0o600); err != nil {
		t.Fatalf("failed to write CA: %v", err)
	}
	return path
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if cfg, err := nilCfg.Build(); cfg != nil || err != nil {
		t.Errorf("expected nil config for nil TLS, got %v, %v", cfg, err)
	}
	if cfg, err := (&TLSConfig{}).Build(); cfg != nil || err != nil {
		t.Errorf("expected nil config for empty TLS, got %v, %v", cfg, err)
	}

	cfg, err := (&TLSConfig{SkipVerify: true, ServerName: "api.internal", MinVersion: "1.3"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.InsecureSkipVerify || cfg.ServerName != "api.internal" || cfg.MinVersion != tls.VersionTLS13 {
		t.Errorf("unexpected tls config: %+v", cfg)
	}

	cfg, err = (&TLSConfig{ServerName: "api.internal"}).Build()
	if err != nil || cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected TLS 1.2 by default, got %v, %v", cfg, err)
	}
}

func TestTLSConfig_BuildErrors(t *testing.T) {
	notPEM := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(notPEM, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  TLSConfig
		want string
	}{
		{"missing CA file", TLSConfig{CAFile: "/nonexistent/ca.pem"}, "read CA file"},
		{"CA without certificates", TLSConfig{CAFile: notPEM}, "no certificates"},
		{"missing client cert", TLSConfig{CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem"}, "load client certificate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestConfig_ValidateTLS(t *testing.T) {
	tests := []struct {
		name    string
		tls     *TLSConfig
		wantErr bool
	}{
		{"cert and key", &TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}, false},
		{"cert without key", &TLSConfig{CertFile: "c.pem"}, true},
		{"unknown min version", &TLSConfig{MinVersion: "1.1"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Timeout: time.Second, TLS: tc.tls}
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestClient_Do_PrivateCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	t.Run("trusted through ca_file", func(t *testing.T) {
		c := newTestClient(t, Config{BaseURL: srv.URL, TLS: &TLSConfig{CAFile: writeCA(t, srv)}})
		resp, err := c.Do(context.Background(), Request{Path: "/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.Status)
		}
	})

	t.Run("unknown authority is a connection error", func(t *testing.T) {
		c := newTestClient(t, Config{BaseURL: srv.URL})
		_, err := c.Do(context.Background(), Request{Path: "/"})
		if !IsConnection(err) {
			t.Fatalf("expected a connection error, got %v", err)
		}
	})
}

func TestNew_BadTLS(t *testing.T) {
	if _, err := New(Config{TLS: &TLSConfig{CAFile: "/nonexistent/ca.pem"}}); err == nil {
		t.Fatal("expected an error for an unreadable CA file")
	}
}
