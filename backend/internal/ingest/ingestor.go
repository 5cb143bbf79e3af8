// Package ingest loads records into the primary store and the graph mirror.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
	"hetio-cli/backend/internal/source"
	apperrors "hetio-cli/backend/pkg/errors"
	"hetio-cli/backend/pkg/logger"
)

// Primary is the document store of record
type Primary interface {
	Exists(ctx context.Context, rec hetnet.Record) (bool, error)
	// Insert reports false when the key was taken by a concurrent writer
	Insert(ctx context.Context, rec hetnet.Record) (bool, error)
	Reset(ctx context.Context) error
}

// Mirror receives every record accepted by the primary store
type Mirror interface {
	Upsert(ctx context.Context, rec hetnet.Record) error
	Reset(ctx context.Context) error
}

// Summary counts the outcome of one batch
type Summary struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// Ingestor writes records into both stores, skipping those the primary
// store already holds
type Ingestor struct {
	primary Primary
	mirror  Mirror
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures an Ingestor
type Option func(*Ingestor)

// WithTimeout bounds the work done for each record. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(i *Ingestor) { i.timeout = d }
}

// WithLogger replaces the global logger
func WithLogger(l *zap.Logger) Option {
	return func(i *Ingestor) { i.logger = l }
}

// NewIngestor creates an ingestor over the two stores
func NewIngestor(primary Primary, mirror Mirror, opts ...Option) *Ingestor {
	i := &Ingestor{primary: primary, mirror: mirror, logger: logger.Get()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest consumes seq. Per-record failures are logged and counted; the
// returned error is only set when the sequence itself fails or ctx is done.
func (i *Ingestor) Ingest(ctx context.Context, seq source.Sequence) (Summary, error) {
	var sum Summary
	for seq.Next() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rec := seq.Record()
		sum.Total++

		inserted, err := i.ingestOne(ctx, rec)
		switch {
		case err != nil:
			sum.Failed++
			i.logger.Warn("Record ingestion failed", zap.Error(err))
		case inserted:
			sum.Inserted++
		default:
			sum.Skipped++
		}
	}
	if err := seq.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

func (i *Ingestor) ingestOne(ctx context.Context, rec hetnet.Record) (bool, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	key := rec.Key()
	if err := rec.Validate(); err != nil {
		return false, apperrors.NewRecordIngestError(key, "validate", err)
	}

	exists, err := i.primary.Exists(ctx, rec)
	if err != nil {
		return false, apperrors.NewRecordIngestError(key, "exists", err)
	}
	if exists {
		return false, nil
	}

	inserted, err := i.primary.Insert(ctx, rec)
	if err != nil {
		return false, apperrors.NewRecordIngestError(key, "insert", err)
	}
	if !inserted {
		i.logger.Debug("Record inserted concurrently, skipping", zap.String("key", key))
		return false, nil
	}

	if err := i.mirror.Upsert(ctx, rec); err != nil {
		return false, apperrors.NewRecordIngestError(key, "mirror", err)
	}
	return true, nil
}

// Reset clears the primary store, then the mirror. A failure leaves the
// stores as they are.
func (i *Ingestor) Reset(ctx context.Context) error {
	if err := i.primary.Reset(ctx); err != nil {
		return fmt.Errorf("reset primary store: %w", err)
	}
	if err := i.mirror.Reset(ctx); err != nil {
		return fmt.Errorf("reset graph mirror: %w", err)
	}
	return nil
}
