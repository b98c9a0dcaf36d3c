package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/ports"
)

const (
	defaultListLimit    = 100
	maxListLimit        = 1000
	defaultSummaryLimit = 12
)

// summaryFormats maps interval names to Mongo $dateToString layouts.
var summaryFormats = map[string]string{
	"day":   "%Y-%m-%d",
	"week":  "%Y-%V",
	"month": "%Y-%m",
	"year":  "%Y",
}

// MeasurementService implements the read/write use-cases over sensor data.
type MeasurementService struct {
	repo ports.MeasurementRepository
	log  zerolog.Logger
}

func NewMeasurementService(repo ports.MeasurementRepository, log zerolog.Logger) *MeasurementService {
	return &MeasurementService{repo: repo, log: log}
}

func (s *MeasurementService) List(ctx context.Context, filter ports.MeasurementFilter) ([]*domain.Measurement, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *MeasurementService) Create(ctx context.Context, input ports.CreateMeasurementInput) (*domain.Measurement, error) {
	now := time.Now().UTC()
	m := &domain.Measurement{
		TypeID:       input.TypeID,
		InstrumentID: input.InstrumentID,
		MeasureTime:  input.MeasureTime,
		Value:        input.Value,
		WaterLevel:   input.WaterLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("instrument_id", input.InstrumentID).Msg("failed to create measurement")
		return nil, err
	}

	return created, nil
}

func (s *MeasurementService) Update(ctx context.Context, id string, update ports.MeasurementUpdate) (*domain.Measurement, error) {
	if update.Value == nil && update.MeasureTime == nil && update.WaterLevel == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	return s.repo.Update(ctx, id, update)
}

func (s *MeasurementService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *MeasurementService) ListTypes(ctx context.Context) ([]*domain.MonitoringType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *MeasurementService) ListInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	return s.repo.ListInstruments(ctx)
}

func (s *MeasurementService) Statistics(ctx context.Context) (*ports.Statistics, error) {
	return s.repo.Statistics(ctx)
}

func (s *MeasurementService) Summary(ctx context.Context, input ports.SummaryInput) ([]*ports.SummaryBucket, error) {
	format, ok := summaryFormats[input.Interval]
	if !ok {
		format = summaryFormats["month"]
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSummaryLimit
	}
	return s.repo.Summary(ctx, format, input.TypeID, limit)
}
