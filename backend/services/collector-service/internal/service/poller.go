package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"multisib/backend/services/collector-service/internal/clients"
	"multisib/backend/services/collector-service/internal/models"
)

const (
	defaultInterval = 2 * time.Second
	mirrorTimeout   = 3 * time.Second
)

var (
	// ErrHTTPStatus marks a tick whose page did not load.
	ErrHTTPStatus = errors.New("service: unexpected http status")
	// ErrTickPanic wraps a panic recovered while processing a page.
	ErrTickPanic = errors.New("service: panic while processing tick")
)

// LiveDataFetcher loads the controller page.
type LiveDataFetcher interface {
	FetchLiveData(ctx context.Context) (clients.LiveData, error)
}

// RecordExtractor turns a page into a record.
type RecordExtractor interface {
	Extract(payload []byte) (models.TelemetryRecord, error)
}

// RowWriter appends one row to table.
type RowWriter interface {
	Insert(ctx context.Context, table string, row []any) error
}

// Mirror receives every record after it was committed. Failures are logged
// and never fail the tick.
type Mirror interface {
	Name() string
	Publish(ctx context.Context, record models.TelemetryRecord) error
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	Table    string
	Interval time.Duration
	// DBTimeout bounds insert and commit; zero leaves them unbounded.
	DBTimeout time.Duration
}

// Poller runs fetch, extract, validate and persist once per interval.
type Poller struct {
	fetcher   LiveDataFetcher
	extractor RecordExtractor
	writer    RowWriter
	snapshot  *Snapshot
	mirrors   []Mirror
	opts      PollerOptions
	logger    *zap.Logger
}

// NewPoller returns a poller. snapshot may be nil.
func NewPoller(fetcher LiveDataFetcher, extractor RecordExtractor, writer RowWriter, snapshot *Snapshot, opts PollerOptions, logger *zap.Logger, mirrors ...Mirror) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if snapshot == nil {
		snapshot = NewSnapshot()
	}
	return &Poller{
		fetcher:   fetcher,
		extractor: extractor,
		writer:    writer,
		snapshot:  snapshot,
		mirrors:   mirrors,
		opts:      opts,
		logger:    logger,
	}
}

// Run ticks until ctx is cancelled. A tick already in progress is finished
// before Run returns; cancellation is only observed between ticks.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started",
		zap.Duration("interval", p.opts.Interval),
		zap.String("table", p.opts.Table),
	)

	for {
		if ctx.Err() != nil {
			p.logger.Info("interrupt received, stopping poller")
			return ctx.Err()
		}

		_ = p.Tick(context.WithoutCancel(ctx))

		timer := time.NewTimer(p.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info("interrupt received, stopping poller")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tick performs one iteration. Every failure is logged once and returned;
// nothing is retried.
func (p *Poller) Tick(ctx context.Context) error {
	data, err := p.fetcher.FetchLiveData(ctx)
	if err != nil {
		p.logger.Error("failed to fetch live data", zap.Error(err))
		return err
	}
	if !data.OK() {
		p.logger.Error("http error during the loading of the page", zap.Int("status", data.StatusCode))
		return fmt.Errorf("%w: %d", ErrHTTPStatus, data.StatusCode)
	}

	record, err := p.store(ctx, data.Body)
	if err != nil {
		p.logger.Error("failed to store telemetry", zap.Error(err))
		return err
	}

	p.snapshot.Store(record)
	p.publish(ctx, record)
	return nil
}

func (p *Poller) store(ctx context.Context, body []byte) (record models.TelemetryRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTickPanic, r)
		}
	}()

	record, err = p.extractor.Extract(body)
	if err != nil {
		return models.TelemetryRecord{}, err
	}

	row := record.Row()
	p.logger.Debug("extracted telemetry", zap.Any("record", record))

	if err := ValidateRecord(row); err != nil {
		return models.TelemetryRecord{}, err
	}

	insertCtx := ctx
	if p.opts.DBTimeout > 0 {
		var cancel context.CancelFunc
		insertCtx, cancel = context.WithTimeout(ctx, p.opts.DBTimeout)
		defer cancel()
	}

	if err := p.writer.Insert(insertCtx, p.opts.Table, row); err != nil {
		return models.TelemetryRecord{}, err
	}
	return record, nil
}

func (p *Poller) publish(ctx context.Context, record models.TelemetryRecord) {
	for _, m := range p.mirrors {
		mctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
		if err := m.Publish(mctx, record); err != nil {
			p.logger.Warn("failed to mirror telemetry", zap.String("mirror", m.Name()), zap.Error(err))
		}
		cancel()
	}
}
