package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"lovemap/internal/core/domain"
)

func TestAppMetrics_RecordOperation(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordOperation(ctx, "todo", "create")
	metrics.RecordOperation(ctx, "todo", "create")
	metrics.RecordOperation(ctx, "post", "delete")

	Expect(testutil.ToFloat64(metrics.recordOperations.WithLabelValues("todo", "create"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.recordOperations.WithLabelValues("post", "delete"))).To(Equal(1.0))
}

func TestAppMetrics_RecordRequest(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	metrics.RecordRequest(context.Background(), "GET", "/todos", "200", 15*time.Millisecond)

	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/todos", "200"))).To(Equal(1.0))
}

func TestNoOpProbe(t *testing.T) {
	RegisterTestingT(t)

	probe := NewNoOpProbe()
	ctx, span := probe.StartRepositorySpan(context.Background(), "Create", "todo", nil)
	defer span.End()

	Expect(ctx).To(Equal(context.Background()))
	span.SetAttributes(map[string]interface{}{"k": "v"})
	span.SetStatus("ok", "")
}

func TestOTELProbe_CountsIntoMetrics(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)
	ctx := context.Background()

	probe.RecordBusinessEvent(ctx, "created", "todo", "abc", nil)
	probe.RecordRepositoryOperation(ctx, "Upsert", "todo", time.Millisecond, nil)
	probe.RecordRepositoryOperation(ctx, "Upsert", "todo", time.Millisecond, errors.New("boom"))

	Expect(testutil.ToFloat64(metrics.recordOperations.WithLabelValues("todo", "created"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Upsert", "todo"))).To(Equal(2.0))
}

func TestAppMetrics_CacheCounters(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordCacheHit(ctx, "posts")
	metrics.RecordCacheMiss(ctx, "posts")
	metrics.RecordCacheMiss(ctx, "posts")

	Expect(testutil.ToFloat64(metrics.cacheHits.WithLabelValues("posts"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.cacheMisses.WithLabelValues("posts"))).To(Equal(2.0))
}

func TestAppMetrics_StartStoreMetrics(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.StartStoreMetrics(ctx, time.Hour, func(context.Context) (StoreCounts, error) {
		return StoreCounts{Todos: 3, TodosDone: 1, Posts: 2}, nil
	})

	Expect(testutil.ToFloat64(metrics.storedRecords.WithLabelValues("todo"))).To(Equal(3.0))
	Expect(testutil.ToFloat64(metrics.storedRecords.WithLabelValues("todo_done"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.storedRecords.WithLabelValues("post"))).To(Equal(2.0))
}

func TestAppMetrics_StartStoreMetrics_KeepsLastOnError(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	metrics.SetStoreCounts(StoreCounts{Todos: 5})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.StartStoreMetrics(ctx, time.Hour, func(context.Context) (StoreCounts, error) {
		return StoreCounts{}, errors.New("store closed")
	})

	Expect(testutil.ToFloat64(metrics.storedRecords.WithLabelValues("todo"))).To(Equal(5.0))
}

func TestOTELProbe_NotFoundIsNotAFailure(t *testing.T) {
	RegisterTestingT(t)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)

	ctx, span := probe.StartRepositorySpan(context.Background(), "GetByID", "post", nil)
	probe.RecordRepositoryOperation(ctx, "GetByID", "post", time.Millisecond, fmt.Errorf("post 9: %w", domain.ErrNotFound))
	span.End()

	ended := recorder.Ended()
	Expect(ended).To(HaveLen(1))
	Expect(ended[0].Name()).To(Equal("repository.post.GetByID"))
	Expect(ended[0].Status().Code).To(Equal(codes.Unset))
	Expect(ended[0].Events()).To(BeEmpty())
	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("GetByID", "post"))).To(Equal(1.0))
}
