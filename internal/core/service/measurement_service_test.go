package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/ports"
)

type stubMeasurementRepo struct {
	measurements map[string]*domain.Measurement
	nextID       int

	lastFilter        ports.MeasurementFilter
	lastSummaryFormat string
	lastSummaryLimit  int

	insertErr error
}

func newStubMeasurementRepo() *stubMeasurementRepo {
	return &stubMeasurementRepo{measurements: make(map[string]*domain.Measurement)}
}

func cloneMeasurement(m *domain.Measurement) *domain.Measurement {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

func (r *stubMeasurementRepo) List(_ context.Context, filter ports.MeasurementFilter) ([]*domain.Measurement, error) {
	r.lastFilter = filter
	out := make([]*domain.Measurement, 0, len(r.measurements))
	for _, m := range r.measurements {
		out = append(out, cloneMeasurement(m))
	}
	return out, nil
}

func (r *stubMeasurementRepo) FindByID(_ context.Context, id string) (*domain.Measurement, error) {
	m, ok := r.measurements[id]
	if !ok {
		return nil, domain.ErrMeasurementNotFound
	}
	return cloneMeasurement(m), nil
}

func (r *stubMeasurementRepo) Insert(_ context.Context, m *domain.Measurement) (*domain.Measurement, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	copy := cloneMeasurement(m)
	r.nextID++
	copy.ID = "m" + strconv.Itoa(r.nextID)
	r.measurements[copy.ID] = cloneMeasurement(copy)
	return copy, nil
}

func (r *stubMeasurementRepo) Update(_ context.Context, id string, update ports.MeasurementUpdate) (*domain.Measurement, error) {
	m, ok := r.measurements[id]
	if !ok {
		return nil, domain.ErrMeasurementNotFound
	}
	if update.Value != nil {
		m.Value = *update.Value
	}
	if update.MeasureTime != nil {
		m.MeasureTime = *update.MeasureTime
	}
	if update.WaterLevel != nil {
		m.WaterLevel = update.WaterLevel
	}
	return cloneMeasurement(m), nil
}

func (r *stubMeasurementRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.measurements[id]; !ok {
		return domain.ErrMeasurementNotFound
	}
	delete(r.measurements, id)
	return nil
}

func (r *stubMeasurementRepo) ListTypes(_ context.Context) ([]*domain.MonitoringType, error) {
	return nil, nil
}

func (r *stubMeasurementRepo) ListInstruments(_ context.Context) ([]*domain.Instrument, error) {
	return nil, nil
}

func (r *stubMeasurementRepo) Statistics(_ context.Context) (*ports.Statistics, error) {
	return &ports.Statistics{}, nil
}

func (r *stubMeasurementRepo) Summary(_ context.Context, periodFormat string, _ int64, limit int) ([]*ports.SummaryBucket, error) {
	r.lastSummaryFormat = periodFormat
	r.lastSummaryLimit = limit
	return nil, nil
}

func newTestMeasurementService(repo *stubMeasurementRepo) *MeasurementService {
	return NewMeasurementService(repo, zerolog.Nop())
}

func TestMeasurementService_List_LimitDefaults(t *testing.T) {
	repo := newStubMeasurementRepo()
	svc := newTestMeasurementService(repo)

	if _, err := svc.List(context.Background(), ports.MeasurementFilter{}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastFilter.Limit != 100 {
		t.Fatalf("expected default limit 100, got %d", repo.lastFilter.Limit)
	}

	if _, err := svc.List(context.Background(), ports.MeasurementFilter{Limit: 5000, Offset: -3}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastFilter.Limit != 1000 {
		t.Fatalf("expected limit capped at 1000, got %d", repo.lastFilter.Limit)
	}
	if repo.lastFilter.Offset != 0 {
		t.Fatalf("expected negative offset clamped, got %d", repo.lastFilter.Offset)
	}
}

func TestMeasurementService_Create(t *testing.T) {
	repo := newStubMeasurementRepo()
	svc := newTestMeasurementService(repo)

	level := 1.5
	created, err := svc.Create(context.Background(), ports.CreateMeasurementInput{
		TypeID:       1,
		InstrumentID: "well-01",
		MeasureTime:  time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Value:        3.7,
		WaterLevel:   &level,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
	if created.WaterLevel == nil || *created.WaterLevel != 1.5 {
		t.Fatalf("water level not stored: %+v", created.WaterLevel)
	}
}

func TestMeasurementService_Update_NoFields(t *testing.T) {
	repo := newStubMeasurementRepo()
	svc := newTestMeasurementService(repo)

	if _, err := svc.Update(context.Background(), "m1", ports.MeasurementUpdate{}); err != domain.ErrNoFieldsToUpdate {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}
}

func TestMeasurementService_Update_NotFound(t *testing.T) {
	repo := newStubMeasurementRepo()
	svc := newTestMeasurementService(repo)

	value := 2.0
	if _, err := svc.Update(context.Background(), "404", ports.MeasurementUpdate{Value: &value}); err != domain.ErrMeasurementNotFound {
		t.Fatalf("expected ErrMeasurementNotFound, got %v", err)
	}
}

func TestMeasurementService_Summary_Intervals(t *testing.T) {
	repo := newStubMeasurementRepo()
	svc := newTestMeasurementService(repo)

	cases := []struct {
		interval string
		format   string
	}{
		{"day", "%Y-%m-%d"},
		{"week", "%Y-%V"},
		{"month", "%Y-%m"},
		{"year", "%Y"},
		{"decade", "%Y-%m"}, // unknown intervals fall back to month
		{"", "%Y-%m"},
	}
	for _, tc := range cases {
		if _, err := svc.Summary(context.Background(), ports.SummaryInput{Interval: tc.interval}); err != nil {
			t.Fatalf("Summary(%q) returned error: %v", tc.interval, err)
		}
		if repo.lastSummaryFormat != tc.format {
			t.Fatalf("interval %q: expected format %q, got %q", tc.interval, tc.format, repo.lastSummaryFormat)
		}
		if repo.lastSummaryLimit != 12 {
			t.Fatalf("interval %q: expected default limit 12, got %d", tc.interval, repo.lastSummaryLimit)
		}
	}
}
