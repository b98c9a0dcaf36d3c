package handler

import (
	"time"

	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/ports"
)

type createMeasurementRequest struct {
	TypeID       int64    `json:"type_id"       validate:"required"`
	InstrumentID string   `json:"instrument_id" validate:"required"`
	MeasureTime  string   `json:"measure_time"  validate:"required"`
	Value        *float64 `json:"value"         validate:"required"`
	WaterLevel   *float64 `json:"water_level,omitempty"`
}

type updateMeasurementRequest struct {
	Value       *float64 `json:"value,omitempty"`
	MeasureTime *string  `json:"measure_time,omitempty"`
	WaterLevel  *float64 `json:"water_level,omitempty"`
}

type batchReadingsRequest struct {
	Readings []createMeasurementRequest `json:"readings" validate:"required,min=1,dive"`
}

type measurementResponse struct {
	ID           string    `json:"id"`
	TypeID       int64     `json:"type_id"`
	InstrumentID string    `json:"instrument_id"`
	MeasureTime  time.Time `json:"measure_time"`
	Value        float64   `json:"value"`
	WaterLevel   *float64  `json:"water_level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type listMeasurementsResponse struct {
	Measurements []measurementResponse `json:"measurements"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

type deleteMeasurementResponse struct {
	ID string `json:"id"`
}

type acceptedResponse struct {
	Message  string `json:"message"`
	Accepted int    `json:"accepted"`
}

type typeStatResponse struct {
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	AvgValue float64 `json:"avg_value"`
}

type timeRangeResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type statisticsResponse struct {
	TotalMeasurements int64              `json:"total_measurements"`
	TypeStatistics    []typeStatResponse `json:"type_statistics"`
	TimeRange         timeRangeResponse  `json:"time_range"`
	InstrumentCount   int64              `json:"instrument_count"`
}

type summaryBucketResponse struct {
	Period   string  `json:"period"`
	Count    int64   `json:"count"`
	AvgValue float64 `json:"avg_value"`
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
}

func toMeasurementResponse(m *domain.Measurement) measurementResponse {
	return measurementResponse{
		ID:           m.ID,
		TypeID:       m.TypeID,
		InstrumentID: m.InstrumentID,
		MeasureTime:  m.MeasureTime,
		Value:        m.Value,
		WaterLevel:   m.WaterLevel,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toReadingInput(req createMeasurementRequest, measureTime time.Time) ports.ReadingInput {
	return ports.ReadingInput{
		TypeID:       req.TypeID,
		InstrumentID: req.InstrumentID,
		MeasureTime:  measureTime,
		Value:        *req.Value,
		WaterLevel:   req.WaterLevel,
	}
}
