package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"arxivepub/internal/fetch"
	"arxivepub/internal/services"
)

func TestPaperID(t *testing.T) {
	id, err := fetch.PaperID("https://arxiv.org/abs/2503.05613")
	if err != nil {
		t.Fatalf("PaperID returned error: %v", err)
	}
	if id != "2503.05613" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestPaperIDRejectsWrongPrefix(t *testing.T) {
	for _, url := range []string{
		"http://arxiv.org/abs/2503.05613",
		"https://example.com/abs/2503.05613",
		"https://arxiv.org/pdf/2503.05613",
		"",
	} {
		if _, err := fetch.PaperID(url); !errors.Is(err, services.ErrValidation) {
			t.Errorf("expected ErrValidation for %q, got %v", url, err)
		}
	}
}

func TestPaperIDRejectsEmptyIdentifier(t *testing.T) {
	if _, err := fetch.PaperID("https://arxiv.org/abs/"); !errors.Is(err, services.ErrValidation) {
		t.Fatal("expected ErrValidation for missing identifier")
	}
}

func TestDownloadStreamsArchive(t *testing.T) {
	payload := []byte("pretend-tarball")
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := fetch.New(filepath.Join(dir, "downloads"), fetch.WithBaseURL(server.URL+"/e-print/"))

	archive, id, err := fetcher.Download(context.Background(), "https://arxiv.org/abs/2503.05613")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if id != "2503.05613" {
		t.Fatalf("unexpected id: %q", id)
	}
	if requestedPath != "/e-print/2503.05613" {
		t.Fatalf("unexpected endpoint path: %q", requestedPath)
	}
	if filepath.Base(archive) != "2503.05613.tar.gz" {
		t.Fatalf("unexpected archive name: %q", archive)
	}
	data, err := os.ReadFile(archive)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("archive content mismatch: %q", data)
	}
}

func TestDownloadFailsOnNon200WithoutCreatingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	downloadDir := filepath.Join(t.TempDir(), "downloads")
	fetcher := fetch.New(downloadDir, fetch.WithBaseURL(server.URL+"/e-print/"))

	_, _, err := fetcher.Download(context.Background(), "https://arxiv.org/abs/2503.05613")
	if !errors.Is(err, services.ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(downloadDir, "2503.05613.tar.gz")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no archive file, got err=%v", statErr)
	}
}

func TestDownloadInvalidURLMakesNoRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	fetcher := fetch.New(t.TempDir(), fetch.WithBaseURL(server.URL+"/e-print/"))
	if _, _, err := fetcher.Download(context.Background(), "ftp://arxiv.org/abs/x"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no HTTP requests, got %d", requests)
	}
}
