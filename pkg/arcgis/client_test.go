package arcgis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
)

// withAPIKey sets the package API key for the duration of a test.
func withAPIKey(t *testing.T, key string) {
	t.Helper()
	prev := APIKey()
	SetAPIKey(key)
	t.Cleanup(func() { SetAPIKey(prev) })
}

func TestGetJSONMissingAPIKey(t *testing.T) {
	withAPIKey(t, "")

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := GetJSON(context.Background(), ServiceGeocode, srv.URL, url.Values{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}

	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if ae.Kind != KindConfiguration {
		t.Errorf("error kind = %q, want %q", ae.Kind, KindConfiguration)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("stub server received %d requests, want 0", n)
	}
}

func TestGetJSONInjectsTokenAndFormat(t *testing.T) {
	withAPIKey(t, "test-key")

	var gotToken, gotFormat, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		gotFormat = r.URL.Query().Get("f")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := GetJSON(context.Background(), ServiceGeocode, srv.URL, url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if gotToken != "test-key" {
		t.Errorf("token = %q, want %q", gotToken, "test-key")
	}
	if gotFormat != "json" {
		t.Errorf("f = %q, want %q", gotFormat, "json")
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
}

func TestGetJSONUpstreamStatus(t *testing.T) {
	withAPIKey(t, "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := GetJSON(context.Background(), ServiceGeocode, srv.URL, url.Values{})
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if ae.Kind != KindUpstream {
		t.Errorf("error kind = %q, want %q", ae.Kind, KindUpstream)
	}
	if ae.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", ae.StatusCode, http.StatusTooManyRequests)
	}
}

func TestGetJSONErrorEnvelope(t *testing.T) {
	withAPIKey(t, "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ArcGIS embeds errors inside 200 responses
		w.Write([]byte(`{"error":{"code":498,"message":"Invalid token."}}`))
	}))
	defer srv.Close()

	_, err := GetJSON(context.Background(), ServiceGeocode, srv.URL, url.Values{})
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if ae.Kind != KindUpstream {
		t.Errorf("error kind = %q, want %q", ae.Kind, KindUpstream)
	}
	if ae.StatusCode != 498 {
		t.Errorf("status = %d, want 498", ae.StatusCode)
	}
	if ae.Message != "Invalid token." {
		t.Errorf("message = %q, want %q", ae.Message, "Invalid token.")
	}
}

func TestGetJSONNetworkError(t *testing.T) {
	withAPIKey(t, "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := GetJSON(context.Background(), ServiceGeocode, srv.URL, url.Values{})
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if ae.Kind != KindNetwork {
		t.Errorf("error kind = %q, want %q", ae.Kind, KindNetwork)
	}
}

func TestPostJSONSendsBody(t *testing.T) {
	withAPIKey(t, "test-key")

	var gotContentType, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := PostJSON(context.Background(), ServiceElevation, srv.URL, map[string]any{
		"coordinates": "[[-117.182, 34.0555]]",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotToken != "test-key" {
		t.Errorf("token = %q, want %q", gotToken, "test-key")
	}
}

func TestHead(t *testing.T) {
	withAPIKey(t, "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %q, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	status, err := Head(context.Background(), ServiceBasemap, srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", status, http.StatusNotFound)
	}
}

func TestHeadMissingAPIKey(t *testing.T) {
	withAPIKey(t, "")

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := Head(context.Background(), ServiceBasemap, srv.URL)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if ae.Kind != KindConfiguration {
		t.Errorf("error kind = %q, want %q", ae.Kind, KindConfiguration)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("stub server received %d requests, want 0", n)
	}
}
