// Package persistence commits event records to the durable store and mirrors
// them to best-effort analytics sinks.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/pkg/logger"
	"github.com/hfn-events/event-report-bot/pkg/metrics"
	"github.com/hfn-events/event-report-bot/pkg/tracing"
)

// ErrDurableWrite wraps every failure of the durable store.
var ErrDurableWrite = errors.New("durable write failed")

// RecordStore is the durable, document-oriented record store. Insert writes
// one record as a single document under a fresh document identifier.
type RecordStore interface {
	Insert(ctx context.Context, rec model.EventRecord) error
}

// Mirror is a best-effort secondary sink.
type Mirror interface {
	Name() string
	Mirror(ctx context.Context, rec model.EventRecord) error
}

// Config tunes mirror delivery.
type Config struct {
	// MirrorRetries is the number of retries after the first mirror attempt.
	MirrorRetries int
	// MirrorTimeout bounds all attempts of one mirror write.
	MirrorTimeout time.Duration
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
}

// DefaultConfig returns the production mirror settings.
func DefaultConfig() Config {
	return Config{
		MirrorRetries:  3,
		MirrorTimeout:  30 * time.Second,
		InitialBackoff: 500 * time.Millisecond,
	}
}

// Gateway writes records durably and fans them out to mirrors.
type Gateway struct {
	store   RecordStore
	mirrors []Mirror
	idem    *IdempotencyCache
	cfg     Config
	logger  *logger.Logger
	tracer  trace.Tracer

	wg sync.WaitGroup
}

// NewGateway creates a gateway. idem may be nil to disable replay detection.
func NewGateway(store RecordStore, mirrors []Mirror, idem *IdempotencyCache, cfg Config, log *logger.Logger) *Gateway {
	if cfg.MirrorTimeout <= 0 {
		cfg.MirrorTimeout = DefaultConfig().MirrorTimeout
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultConfig().InitialBackoff
	}
	return &Gateway{
		store:   store,
		mirrors: mirrors,
		idem:    idem,
		cfg:     cfg,
		logger:  log,
		tracer:  tracing.Tracer("github.com/hfn-events/event-report-bot/internal/persistence"),
	}
}

// Commit stores rec once. The durable write is attempted exactly once and its
// failure is returned wrapped in ErrDurableWrite. Mirrors run in the
// background after a successful durable write; their failures are logged
// and never returned. A non-empty key already committed is a no-op.
func (g *Gateway) Commit(ctx context.Context, key string, rec model.EventRecord) error {
	if _, ok := g.Committed(key); ok {
		g.logger.Info("skipping replayed commit", zap.String("key", key), zap.String("record_id", rec.ID))
		return nil
	}

	ctx, span := g.tracer.Start(ctx, "persistence.commit", trace.WithAttributes(
		attribute.String("record.id", rec.ID),
		attribute.String("record.type", rec.Type),
	))
	defer span.End()

	start := time.Now()
	if err := g.store.Insert(ctx, rec); err != nil {
		metrics.RecordCommit("error", time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "durable write failed")
		g.logger.Error("failed to write record", zap.String("record_id", rec.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrDurableWrite, err)
	}
	metrics.RecordCommit("ok", time.Since(start).Seconds())

	if key != "" && g.idem != nil {
		g.idem.Put(key, rec)
	}

	g.logger.Info("record committed", zap.String("record_id", rec.ID), zap.String("type", rec.Type))

	// Mirrors outlive the request.
	mctx := context.WithoutCancel(ctx)
	for _, m := range g.mirrors {
		g.wg.Add(1)
		metrics.MirrorsInFlight.Inc()
		go func(m Mirror) {
			defer g.wg.Done()
			defer metrics.MirrorsInFlight.Dec()
			g.mirror(mctx, m, rec)
		}(m)
	}

	return nil
}

// Committed returns the record stored under key by an earlier Commit.
func (g *Gateway) Committed(key string) (model.EventRecord, bool) {
	if key == "" || g.idem == nil {
		return model.EventRecord{}, false
	}
	return g.idem.Get(key)
}

func (g *Gateway) mirror(ctx context.Context, m Mirror, rec model.EventRecord) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.MirrorTimeout)
	defer cancel()

	ctx, span := g.tracer.Start(ctx, "persistence.mirror", trace.WithAttributes(
		attribute.String("mirror.sink", m.Name()),
		attribute.String("record.id", rec.ID),
	))
	defer span.End()

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = g.cfg.InitialBackoff
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(max(g.cfg.MirrorRetries, 0))), ctx)

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		return m.Mirror(ctx, rec)
	}, policy)
	if err != nil {
		metrics.RecordMirror(m.Name(), "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "mirror failed")
		g.logger.Warn("analytics mirror failed",
			zap.String("sink", m.Name()),
			zap.String("record_id", rec.ID),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return
	}
	metrics.RecordMirror(m.Name(), "ok")
}

// Wait blocks until every in-flight mirror write has finished.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// Close waits for in-flight mirror writes or for ctx to end.
func (g *Gateway) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mirrors still in flight: %w", ctx.Err())
	}
}
