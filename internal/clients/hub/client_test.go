package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSaveDetection_PostsPayload(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotUser string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.Header.Get("X-User")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status":"saved"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, User: "kai"})
	if err := c.SaveDetection(context.Background(), "hello", 0.91); err != nil {
		t.Fatalf("SaveDetection: %v", err)
	}
	if gotPath != "/save_detection" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotUser != "kai" {
		t.Fatalf("X-User = %q", gotUser)
	}
	if gotBody["sign"] != "hello" || gotBody["confidence"] != 0.91 {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestSyncProgress_PostsPayload(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status":"synced","streak":3}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	if err := c.SyncProgress(context.Background(), 120, 2, 3); err != nil {
		t.Fatalf("SyncProgress: %v", err)
	}
	// json numbers decode as float64
	if gotBody["xp"] != float64(120) || gotBody["level"] != float64(2) || gotBody["streak"] != float64(3) {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestPost_NonSuccessStatusErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	if err := c.SaveDetection(context.Background(), "hello", 0.9); err == nil {
		t.Fatalf("500 should error")
	}
}
