package arr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkarr/internal/config"
	"checkarr/internal/logging"
	"checkarr/internal/services"
)

func testInstance(url string) config.Instance {
	return config.Instance{
		Enabled:        true,
		URL:            url,
		APIKey:         "secret-key",
		TimeoutSeconds: 5,
	}
}

func TestClientSendsAPIKeyHeader(t *testing.T) {
	var gotKey, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient("sonarr", testInstance(server.URL), logging.NewNop())
	var out []Series
	if err := client.get(context.Background(), "series", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}
}

func TestClientSendsBasicAuth(t *testing.T) {
	var user, pass string
	var ok bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	inst := testInstance(server.URL)
	inst.BasicAuthUsername = "proxyuser"
	inst.BasicAuthPassword = "proxypass"
	client := NewClient("sonarr", inst, logging.NewNop())
	var out []Series
	if err := client.get(context.Background(), "series", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || user != "proxyuser" || pass != "proxypass" {
		t.Fatalf("expected basic auth, got ok=%v %q/%q", ok, user, pass)
	}
}

func TestClientNon2xxIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("radarr", testInstance(server.URL), logging.NewNop())
	err := client.get(context.Background(), "movie", nil, &[]Movie{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrAPI) {
		t.Fatalf("expected api marker, got %v", err)
	}
}

func TestClientEmptyBodyWithOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("sonarr", testInstance(server.URL), logging.NewNop())
	var out []Series
	if err := client.get(context.Background(), "series", nil, &out); err != nil {
		t.Fatalf("empty body should not be a decode error: %v", err)
	}
}

func TestReleaseDecodesNestedQuality(t *testing.T) {
	payload := `{
  "guid": "abc-123",
  "indexerId": 7,
  "indexer": "NZBIndexer",
  "title": "Show.S01E01.1080p.WEB",
  "size": 4500000000,
  "age": 12,
  "quality": {"quality": {"id": 9, "name": "HDTV-1080p"}}
}`
	var release Release
	if err := json.Unmarshal([]byte(payload), &release); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if release.QualityID() != 9 || release.QualityName() != "HDTV-1080p" {
		t.Fatalf("quality not decoded: %+v", release)
	}
	if !release.Valid() {
		t.Fatal("expected valid release")
	}
	if (Release{Title: "no ids"}).Valid() {
		t.Fatal("release without guid/indexer must be invalid")
	}
	if (Release{}).QualityName() != "Unknown" {
		t.Fatal("missing quality name should read Unknown")
	}
}
