package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frenchcercle/cercle/internal/models"
)

func TestNavigateDecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/visits/v1/navigate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["view"] != "ABOUT" {
			t.Errorf("unexpected body %v", body)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"v1","view":"ABOUT","menuOpen":false}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	page, err := c.Navigate(context.Background(), "v1", models.ViewAbout)
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if page.View != models.ViewAbout || page.ID != "v1" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"validation_error","message":"some fields are invalid","fields":{"email":"email must contain @"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Register(context.Background(), "v1", RegistrationFields{FirstName: "Alice"})

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Code != "validation_error" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if apiErr.Fields["email"] == "" {
		t.Error("expected field messages")
	}
}

func TestLoginKeepsToken(t *testing.T) {
	var lastAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/v1/visits/v1/admin/login":
			_, _ = w.Write([]byte(`{"success":true,"data":{"token":"tok-123","page":{"id":"v1","view":"ADMIN"}}}`))
		case "/api/v1/admin/registrants":
			_, _ = w.Write([]byte(`{"success":true,"data":{"registrants":[{"id":"1","firstName":"Alice"}],"total":1}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Login(context.Background(), "v1", "", "admin123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if c.Token() != "tok-123" {
		t.Fatalf("expected token to be kept, got %q", c.Token())
	}

	dir, err := c.ListRegistrants(context.Background())
	if err != nil {
		t.Fatalf("ListRegistrants failed: %v", err)
	}
	if lastAuth != "Bearer tok-123" {
		t.Errorf("unexpected authorization %q", lastAuth)
	}
	if dir.Total != 1 || dir.Registrants[0].FirstName != "Alice" {
		t.Errorf("unexpected directory %+v", dir)
	}
}
