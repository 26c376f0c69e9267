package services_test

import (
	"context"
	"testing"

	"arxivepub/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPaperID(ctx, "2503.05613")
	ctx = services.WithStage(ctx, "fetch")
	ctx = services.WithRunID(ctx, "run-1")

	if id, ok := services.PaperIDFromContext(ctx); !ok || id != "2503.05613" {
		t.Fatalf("unexpected paper id: %q ok=%v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "fetch" {
		t.Fatalf("unexpected stage: %q ok=%v", stage, ok)
	}
	if run, ok := services.RunIDFromContext(ctx); !ok || run != "run-1" {
		t.Fatalf("unexpected run id: %q ok=%v", run, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage for empty value")
	}
	if _, ok := services.PaperIDFromContext(context.Background()); ok {
		t.Fatal("expected no paper id on fresh context")
	}
}
