package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestGet_Typed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("expand") != "true" || r.Header.Get("X-Trace") != "1" {
			t.Errorf("expected options to be applied, got %s %v", r.URL.RawQuery, r.Header)
		}
		_ = json.NewEncoder(w).Encode(user{ID: 1, Name: "Alice"})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Get[user](context.Background(), c, "/users/1",
		WithQueryParam("expand", "true"), WithHeader("X-Trace", "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Name != "Alice" || resp.Status != 200 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPost_Typed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in user
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.ID = 7
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Post[user](context.Background(), c, "/users", user{Name: "Bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.ID != 7 || resp.Status != http.StatusCreated {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestDelete_TypedFailureReturnsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"reason":"in use"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	resp, err := Delete[user](context.Background(), c, "/users/1")
	if resp != nil {
		t.Errorf("expected nil typed response, got %+v", resp)
	}
	fe, ok := AsFetchError(err)
	if !ok || fe.Status != http.StatusConflict {
		t.Fatalf("expected 409 fetch error, got %v", err)
	}
	if d, ok := fe.Data.(map[string]any); !ok || d["reason"] != "in use" {
		t.Errorf("expected error body as data, got %#v", fe.Data)
	}
}

func TestPut_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	if _, err := Put[user](context.Background(), c, "/users/1", user{}); err == nil {
		t.Fatal("expected decode error")
	}
}
