package ports

import (
	"context"
	"time"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

// CreateMeasurementInput carries the fields of a new sensor reading.
type CreateMeasurementInput struct {
	TypeID       int64
	InstrumentID string
	MeasureTime  time.Time
	Value        float64
	WaterLevel   *float64
}

// SummaryInput selects the interval grouping for a measurement summary.
type SummaryInput struct {
	Interval string // day, week, month, year
	TypeID   int64  // 0 = all types
	Limit    int
}

// MeasurementService defines the read/write use-cases over sensor data.
type MeasurementService interface {
	List(ctx context.Context, filter MeasurementFilter) ([]*domain.Measurement, error)
	Create(ctx context.Context, input CreateMeasurementInput) (*domain.Measurement, error)
	Update(ctx context.Context, id string, update MeasurementUpdate) (*domain.Measurement, error)
	Delete(ctx context.Context, id string) error

	ListTypes(ctx context.Context) ([]*domain.MonitoringType, error)
	ListInstruments(ctx context.Context) ([]*domain.Instrument, error)
	Statistics(ctx context.Context) (*Statistics, error)
	Summary(ctx context.Context, input SummaryInput) ([]*SummaryBucket, error)
}

// ReadingInput is the DTO passed from the transport layer to IngestService.
type ReadingInput struct {
	TypeID       int64
	InstrumentID string
	MeasureTime  time.Time
	Value        float64
	WaterLevel   *float64
}

// IngestService processes batch-submitted sensor readings.
type IngestService interface {
	Process(ctx context.Context, reading ReadingInput) error
}
