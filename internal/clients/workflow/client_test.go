package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

func clientForTest(t *testing.T, url, secret string) Client {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c, err := New(log, Config{
		IngestURL:  url + "/ingest",
		EnrichURL:  url + "/enrich",
		PreviewURL: url + "/preview",
		Secret:     secret,
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}
	return c
}

func TestClientSendsSecretHeader(t *testing.T) {
	t.Parallel()

	var gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Webhook-Secret")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := clientForTest(t, srv.URL, "s3cret")
	res, err := c.EnrichBook(context.Background(), EnrichBookRequest{BookID: "b-1", Title: "T", Author: "A"})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if !res.Success {
		t.Fatal("success = false")
	}
	if gotSecret != "s3cret" {
		t.Fatalf("X-Webhook-Secret = %q, want s3cret", gotSecret)
	}
}

func TestClientOmitsSecretHeaderWhenUnset(t *testing.T) {
	t.Parallel()

	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["X-Webhook-Secret"]
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := clientForTest(t, srv.URL, "")
	if _, err := c.EnrichBook(context.Background(), EnrichBookRequest{BookID: "b-1"}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if present {
		t.Fatal("X-Webhook-Secret sent without a configured secret")
	}
}

func TestClientErrorCarriesResponseBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow not active", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := clientForTest(t, srv.URL, "")
	_, err := c.RenderPreview(context.Background(), "concise", "short")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "workflow not active") {
		t.Fatalf("error %q missing engine response body", err)
	}
}
