package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewStorageService(t *testing.T) {
	svc := NewStorageService("http://localhost:54321/", "test-key", "diffs")
	if svc.baseURL != "http://localhost:54321" {
		t.Fatalf("expected base url to be trimmed, got %s", svc.baseURL)
	}
	if svc.apiKey != "test-key" {
		t.Fatalf("expected api key to be set, got %s", svc.apiKey)
	}
	if svc.bucket != "diffs" {
		t.Fatalf("expected bucket to be set, got %s", svc.bucket)
	}
}

func TestStorageService_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewStorageService(srv.URL, "key", "diffs")
	if err := svc.Upload(context.Background(), "/report_pdf/page_1.png", strings.NewReader("png"), "image/png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/storage/v1/object/diffs/report_pdf/page_1.png" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer key" || gotType != "image/png" || gotBody != "png" {
		t.Fatalf("unexpected request: auth=%q type=%q body=%q", gotAuth, gotType, gotBody)
	}
}

func TestStorageService_UploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	svc := NewStorageService(srv.URL, "key", "diffs")
	if err := svc.Upload(context.Background(), "a.png", strings.NewReader("x"), "image/png"); err == nil {
		t.Fatalf("expected error for 403 response")
	}
}
