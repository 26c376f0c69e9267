// Package fetch resolves arXiv abstract URLs and downloads paper source
// archives.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"arxivepub/internal/logging"
	"arxivepub/internal/services"
)

const (
	// AbstractPrefix is the required prefix for input URLs.
	AbstractPrefix = "https://arxiv.org/abs/"
	// sourceEndpoint is the e-print download endpoint template.
	sourceEndpoint = "https://arxiv.org/e-print/"
)

// Fetcher downloads LaTeX source archives from arXiv.
type Fetcher struct {
	client      *http.Client
	downloadDir string
	baseURL     string
	logger      *slog.Logger
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient injects a custom HTTP client (primarily for tests).
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithBaseURL overrides the e-print endpoint prefix (primarily for tests).
func WithBaseURL(base string) Option {
	return func(f *Fetcher) {
		if base != "" {
			f.baseURL = base
		}
	}
}

// WithLogger attaches a logger to the fetcher.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logging.NewComponentLogger(logger, "fetcher")
		}
	}
}

// New constructs a fetcher writing archives into downloadDir.
func New(downloadDir string, opts ...Option) *Fetcher {
	fetcher := &Fetcher{
		client:      &http.Client{Timeout: 5 * time.Minute},
		downloadDir: downloadDir,
		baseURL:     sourceEndpoint,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// PaperID validates an abstract-page URL and returns the trailing paper
// identifier. The URL must begin with AbstractPrefix and carry a non-empty
// final path segment.
func PaperID(url string) (string, error) {
	if !strings.HasPrefix(url, AbstractPrefix) {
		return "", services.Wrap(services.ErrValidation, "fetch", "parse url",
			fmt.Sprintf("invalid arXiv URL %q: must start with %q", url, AbstractPrefix), nil)
	}
	segments := strings.Split(strings.TrimRight(url, "/"), "/")
	id := segments[len(segments)-1]
	if id == "" || id == "abs" {
		return "", services.Wrap(services.ErrValidation, "fetch", "parse url",
			fmt.Sprintf("invalid arXiv URL %q: missing paper identifier", url), nil)
	}
	return id, nil
}

// Download validates the URL, streams the source archive to disk, and
// returns the archive path together with the paper identifier. No network
// request is made for invalid URLs.
func (f *Fetcher) Download(ctx context.Context, url string) (string, string, error) {
	id, err := PaperID(url)
	if err != nil {
		return "", "", err
	}

	endpoint := f.baseURL + id
	archivePath := filepath.Join(f.downloadDir, id+".tar.gz")

	f.logger.Info("starting download", logging.String(logging.FieldPaperID, id), logging.String("endpoint", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", services.Wrap(services.ErrRetrieval, "fetch", "build request", endpoint, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", services.Wrap(services.ErrRetrieval, "fetch", "get", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", services.Wrap(services.ErrRetrieval, "fetch", "get",
			fmt.Sprintf("%s returned status %d", endpoint, resp.StatusCode), nil)
	}

	if err := os.MkdirAll(f.downloadDir, 0o755); err != nil {
		return "", "", services.Wrap(services.ErrRetrieval, "fetch", "create download dir", f.downloadDir, err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return "", "", services.Wrap(services.ErrRetrieval, "fetch", "create archive", archivePath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = os.Remove(archivePath)
		return "", "", services.Wrap(services.ErrRetrieval, "fetch", "stream body", endpoint, err)
	}

	f.logger.Info("download complete",
		logging.String(logging.FieldPaperID, id),
		logging.String("path", archivePath),
		logging.Int64("bytes", written),
	)
	return archivePath, id, nil
}
