package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"arxivepub/internal/logging"
	"arxivepub/internal/services"
)

func TestConsoleFormatIncludesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "fetcher")
	component.Info("download complete", logging.String("paper_id", "2503.05613"), logging.Int("bytes", 42))

	line := buf.String()
	if !strings.Contains(line, "INFO fetcher: download complete") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "paper_id=2503.05613") {
		t.Fatalf("expected paper_id field, got %q", line)
	}
	if !strings.Contains(line, "bytes=42") {
		t.Fatalf("expected bytes field, got %q", line)
	}
}

func TestConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("resolved", logging.String("title", "Example Paper"))
	if !strings.Contains(buf.String(), `title="Example Paper"`) {
		t.Fatalf("expected quoted title, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")
	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"level":"info"`) {
		t.Fatalf("unexpected json line: %q", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestWithContextAddsStandardFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithPaperID(context.Background(), "2503.05613")
	ctx = logging.WithStage(ctx, "extract")
	ctx = services.WithRunID(ctx, "run-7")

	logging.WithContext(ctx, logger).Info("stage started")

	line := buf.String()
	for _, want := range []string{"paper_id=2503.05613", "stage=extract", "run_id=run-7"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in line %q", want, line)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored")
	if logger.Enabled(context.Background(), 8) {
		t.Fatal("noop logger should never be enabled")
	}
}
