package card

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func generateServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGenerate(t *testing.T) {
	srv := generateServer(t, http.StatusOK, `{"id":893,"name":"Michael Jordan","all_star_count":14,"image_url":"https://example.com/jordami01.jpg"}`)
	c := NewClient(srv.URL+"/", nil, time.Second)
	if c.Endpoint() != srv.URL+"/api/generate" {
		t.Fatalf("unexpected endpoint %s", c.Endpoint())
	}

	rec, err := c.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rec.ID != 893 || rec.Name != "Michael Jordan" || rec.AllStarCount != 14 || rec.Image() != "https://example.com/jordami01.jpg" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestClientGenerateOmittedAndNullImage(t *testing.T) {
	for _, body := range []string{
		`{"id":1,"name":"Nene","all_star_count":0}`,
		`{"id":1,"name":"Nene","all_star_count":0,"image_url":null}`,
	} {
		srv := generateServer(t, http.StatusOK, body)
		rec, err := NewClient(srv.URL, nil, 0).Generate(context.Background())
		if err != nil {
			t.Fatalf("generate %s: %v", body, err)
		}
		if rec.HasImage() {
			t.Fatalf("expected no image for %s", body)
		}
	}
}

func TestClientGenerateKeepsUnusableImageURLs(t *testing.T) {
	for _, raw := range []string{"", "/static/nene.jpg", "not a url"} {
		srv := generateServer(t, http.StatusOK, `{"id":2403,"name":"Nene","all_star_count":0,"image_url":"`+raw+`"}`)
		rec, err := NewClient(srv.URL, nil, time.Second).Generate(context.Background())
		if err != nil {
			t.Fatalf("generate with image_url %q: %v", raw, err)
		}
		if rec.Name != "Nene" || rec.Image() != raw {
			t.Fatalf("unexpected record for image_url %q: %+v", raw, rec)
		}
	}
}

func TestClientGenerateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		bad    bool
	}{
		{name: "server_error", status: http.StatusInternalServerError, body: `{"error":"No players available"}`, bad: true},
		{name: "malformed_json", status: http.StatusOK, body: `{"id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := generateServer(t, tt.status, tt.body)
			_, err := NewClient(srv.URL, nil, time.Second).Generate(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if errors.Is(err, ErrBadStatus) != tt.bad {
				t.Fatalf("ErrBadStatus=%v, want %v (%v)", errors.Is(err, ErrBadStatus), tt.bad, err)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	if _, err := NewClient(srv.URL, nil, time.Second).Generate(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	}
}
