package sync

import (
	"context"
	"testing"

	"goldtracer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func TestRepositoryWithoutPoolReturnsErrors(t *testing.T) {
	repo := NewRepository(nil, trace.NewNoopTracerProvider().Tracer("test"))
	ctx := context.Background()

	if err := repo.UpsertQuote(ctx, domain.Quote{Symbol: "GC=F"}); err == nil {
		t.Fatal("expected error from UpsertQuote with no pool")
	} else if domain.KindOf(err) != domain.ErrPersistenceFailure {
		t.Errorf("expected persistence_failure, got %s", domain.KindOf(err))
	}

	if _, err := repo.ListQuotes(ctx); err == nil {
		t.Error("expected error from ListQuotes with no pool")
	}
	if _, err := repo.GetMacroIndicator(ctx, domain.IndicatorRealYield); err == nil {
		t.Error("expected error from GetMacroIndicator with no pool")
	}
	if _, err := repo.UpsertMacroHistory(ctx, []domain.MacroHistoryPoint{{LogDate: "2026-08-31"}}, 10); err == nil {
		t.Error("expected error from UpsertMacroHistory with no pool")
	}
	if _, err := repo.InsertNewsItems(ctx, []domain.NewsItem{{Title: "t"}}); err == nil {
		t.Error("expected error from InsertNewsItems with no pool")
	}
	if err := repo.RunMigrations(ctx); err == nil {
		t.Error("expected error from RunMigrations with no pool")
	}
}

func TestRepositoryWithoutPoolSkipsEmptyBatches(t *testing.T) {
	repo := NewRepository(nil, trace.NewNoopTracerProvider().Tracer("test"))
	ctx := context.Background()

	if n, err := repo.UpsertMacroHistory(ctx, nil, 10); err != nil || n != 0 {
		t.Errorf("empty history batch should be a no-op, got n=%d err=%v", n, err)
	}
	if n, err := repo.InsertNewsItems(ctx, nil); err != nil || n != 0 {
		t.Errorf("empty news batch should be a no-op, got n=%d err=%v", n, err)
	}
}
