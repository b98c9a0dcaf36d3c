package ports

import (
	"context"
	"time"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

// MeasurementFilter carries all query parameters for listing measurements.
type MeasurementFilter struct {
	TypeID       int64     // 0 = no filter
	InstrumentID string    // empty = no filter
	StartTime    time.Time // optional: measure_time >= StartTime
	EndTime      time.Time // optional: measure_time <= EndTime
	Limit        int
	Offset       int
}

// MeasurementUpdate carries the mutable fields of a measurement.
// Nil pointers mean "leave unchanged".
type MeasurementUpdate struct {
	Value       *float64
	MeasureTime *time.Time
	WaterLevel  *float64
}

// TypeStat is a per-monitoring-type aggregate.
type TypeStat struct {
	Name     string
	Count    int64
	AvgValue float64
}

// Statistics is the dataset-wide aggregate view.
type Statistics struct {
	TotalMeasurements int64
	TypeStatistics    []TypeStat
	TimeRangeStart    time.Time
	TimeRangeEnd      time.Time
	InstrumentCount   int64
}

// SummaryBucket is one time-interval aggregate in a summary.
type SummaryBucket struct {
	Period   string
	Count    int64
	AvgValue float64
	MinValue float64
	MaxValue float64
}

// MeasurementRepository defines persistence operations for sensor readings.
type MeasurementRepository interface {
	List(ctx context.Context, filter MeasurementFilter) ([]*domain.Measurement, error)
	FindByID(ctx context.Context, id string) (*domain.Measurement, error)
	Insert(ctx context.Context, m *domain.Measurement) (*domain.Measurement, error)
	Update(ctx context.Context, id string, update MeasurementUpdate) (*domain.Measurement, error)
	Delete(ctx context.Context, id string) error

	ListTypes(ctx context.Context) ([]*domain.MonitoringType, error)
	ListInstruments(ctx context.Context) ([]*domain.Instrument, error)
	Statistics(ctx context.Context) (*Statistics, error)
	// Summary groups readings by the given period format (Mongo $dateToString
	// layout), newest periods first, limited to limit buckets.
	Summary(ctx context.Context, periodFormat string, typeID int64, limit int) ([]*SummaryBucket, error)
}
