package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, instrumentID string, typeID int64, ts time.Time) (bool, error)
	Mark(ctx context.Context, instrumentID string, typeID int64, ts time.Time) error
}

type ingestService struct {
	repo  ports.MeasurementRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewIngestService returns an IngestService implementation.
func NewIngestService(repo ports.MeasurementRepository, dedup DedupChecker, log zerolog.Logger) ports.IngestService {
	return &ingestService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single batch-submitted reading.
func (s *ingestService) Process(ctx context.Context, in ports.ReadingInput) error {
	// Duplicates are skipped silently, not reported as errors.
	isDup, err := s.dedup.IsDuplicate(ctx, in.InstrumentID, in.TypeID, in.MeasureTime)
	if err != nil {
		s.log.Warn().Err(err).Str("instrument_id", in.InstrumentID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("instrument_id", in.InstrumentID).Time("measure_time", in.MeasureTime).Msg("duplicate reading skipped")
		return nil
	}

	// Mark before writing so a retried batch cannot double-insert.
	if markErr := s.dedup.Mark(ctx, in.InstrumentID, in.TypeID, in.MeasureTime); markErr != nil {
		s.log.Warn().Err(markErr).Str("instrument_id", in.InstrumentID).Msg("failed to set dedup key")
	}

	now := time.Now().UTC()
	m := &domain.Measurement{
		TypeID:       in.TypeID,
		InstrumentID: in.InstrumentID,
		MeasureTime:  in.MeasureTime,
		Value:        in.Value,
		WaterLevel:   in.WaterLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.repo.Insert(ctx, m); err != nil {
		return fmt.Errorf("ingest reading: %w", err)
	}

	s.log.Info().
		Str("instrument_id", in.InstrumentID).
		Int64("type_id", in.TypeID).
		Float64("value", in.Value).
		Msg("reading ingested")

	return nil
}
