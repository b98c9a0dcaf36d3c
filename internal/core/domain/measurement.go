package domain

import (
	"errors"
	"time"
)

var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

// MonitoringType describes a category of sensor data (e.g. water level,
// rainfall) and the unit its values are expressed in.
type MonitoringType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Measurement is a single sensor reading taken by an instrument.
type Measurement struct {
	ID           string    `json:"id"`
	TypeID       int64     `json:"type_id"`
	InstrumentID string    `json:"instrument_id"`
	MeasureTime  time.Time `json:"measure_time"`
	Value        float64   `json:"value"`
	WaterLevel   *float64  `json:"water_level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Instrument is a distinct sensor observed in the measurement data, joined
// with its monitoring type name.
type Instrument struct {
	InstrumentID string `json:"instrument_id"`
	TypeID       int64  `json:"type_id"`
	TypeName     string `json:"type_name"`
}
