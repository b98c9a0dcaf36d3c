package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/ports"
)

const (
	measurementsCollection = "measurements"
	typesCollection        = "monitoring_types"
)

type MeasurementRepository struct {
	col   *mongo.Collection
	types *mongo.Collection
}

func NewMeasurementRepository(db *mongo.Database) *MeasurementRepository {
	return &MeasurementRepository{
		col:   db.Collection(measurementsCollection),
		types: db.Collection(typesCollection),
	}
}

type mongoMeasurement struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	TypeID       int64              `bson:"type_id"`
	InstrumentID string             `bson:"instrument_id"`
	MeasureTime  time.Time          `bson:"measure_time"`
	Value        float64            `bson:"value"`
	WaterLevel   *float64           `bson:"water_level,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type mongoType struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
	Unit string `bson:"unit"`
}

func (mm *mongoMeasurement) toDomain() *domain.Measurement {
	return &domain.Measurement{
		ID:           mm.ID.Hex(),
		TypeID:       mm.TypeID,
		InstrumentID: mm.InstrumentID,
		MeasureTime:  mm.MeasureTime,
		Value:        mm.Value,
		WaterLevel:   mm.WaterLevel,
		CreatedAt:    mm.CreatedAt,
		UpdatedAt:    mm.UpdatedAt,
	}
}

func (r *MeasurementRepository) List(ctx context.Context, filter ports.MeasurementFilter) ([]*domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.TypeID != 0 {
		query["type_id"] = filter.TypeID
	}
	if filter.InstrumentID != "" {
		query["instrument_id"] = filter.InstrumentID
	}
	timeRange := bson.M{}
	if !filter.StartTime.IsZero() {
		timeRange["$gte"] = filter.StartTime
	}
	if !filter.EndTime.IsZero() {
		timeRange["$lte"] = filter.EndTime
	}
	if len(timeRange) > 0 {
		query["measure_time"] = timeRange
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "measure_time", Value: -1}}).
		SetLimit(int64(filter.Limit)).
		SetSkip(int64(filter.Offset))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Measurement
	for cur.Next(ctx) {
		var mm mongoMeasurement
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode measurement: %w", err)
		}
		out = append(out, mm.toDomain())
	}
	return out, cur.Err()
}

func (r *MeasurementRepository) FindByID(ctx context.Context, id string) (*domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMeasurementNotFound
	}

	var mm mongoMeasurement
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMeasurementNotFound
		}
		return nil, fmt.Errorf("find measurement: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MeasurementRepository) Insert(ctx context.Context, m *domain.Measurement) (*domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"type_id":       m.TypeID,
		"instrument_id": m.InstrumentID,
		"measure_time":  m.MeasureTime,
		"value":         m.Value,
		"created_at":    m.CreatedAt,
		"updated_at":    m.UpdatedAt,
	}
	if m.WaterLevel != nil {
		doc["water_level"] = *m.WaterLevel
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert measurement: %w", err)
	}

	inserted := *m
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		inserted.ID = oid.Hex()
	}
	return &inserted, nil
}

func (r *MeasurementRepository) Update(ctx context.Context, id string, update ports.MeasurementUpdate) (*domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrMeasurementNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Value != nil {
		set["value"] = *update.Value
	}
	if update.MeasureTime != nil {
		set["measure_time"] = *update.MeasureTime
	}
	if update.WaterLevel != nil {
		set["water_level"] = *update.WaterLevel
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mm mongoMeasurement
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMeasurementNotFound
		}
		return nil, fmt.Errorf("update measurement: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MeasurementRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrMeasurementNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete measurement: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMeasurementNotFound
	}
	return nil
}

func (r *MeasurementRepository) ListTypes(ctx context.Context) ([]*domain.MonitoringType, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.types.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.MonitoringType
	for cur.Next(ctx) {
		var t mongoType
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode type: %w", err)
		}
		out = append(out, &domain.MonitoringType{ID: t.ID, Name: t.Name, Unit: t.Unit})
	}
	return out, cur.Err()
}

func (r *MeasurementRepository) ListInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"instrument_id": "$instrument_id", "type_id": "$type_id"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.instrument_id", Value: 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	defer cur.Close(ctx)

	typeNames, err := r.typeNames(ctx)
	if err != nil {
		return nil, err
	}

	var out []*domain.Instrument
	for cur.Next(ctx) {
		var row struct {
			ID struct {
				InstrumentID string `bson:"instrument_id"`
				TypeID       int64  `bson:"type_id"`
			} `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode instrument: %w", err)
		}
		name, ok := typeNames[row.ID.TypeID]
		if !ok {
			name = "unknown"
		}
		out = append(out, &domain.Instrument{
			InstrumentID: row.ID.InstrumentID,
			TypeID:       row.ID.TypeID,
			TypeName:     name,
		})
	}
	return out, cur.Err()
}

func (r *MeasurementRepository) Statistics(ctx context.Context) (*ports.Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count measurements: %w", err)
	}

	stats := &ports.Statistics{TotalMeasurements: total}

	// Per-type count and average.
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":       "$type_id",
			"count":     bson.M{"$sum": 1},
			"avg_value": bson.M{"$avg": "$value"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("type statistics: %w", err)
	}
	defer cur.Close(ctx)

	typeNames, err := r.typeNames(ctx)
	if err != nil {
		return nil, err
	}

	for cur.Next(ctx) {
		var row struct {
			TypeID   int64   `bson:"_id"`
			Count    int64   `bson:"count"`
			AvgValue float64 `bson:"avg_value"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode type stat: %w", err)
		}
		name, ok := typeNames[row.TypeID]
		if !ok {
			name = "unknown"
		}
		stats.TypeStatistics = append(stats.TypeStatistics, ports.TypeStat{
			Name:     name,
			Count:    row.Count,
			AvgValue: row.AvgValue,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// Overall time range.
	rangeCur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"start": bson.M{"$min": "$measure_time"},
			"end":   bson.M{"$max": "$measure_time"},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("time range: %w", err)
	}
	defer rangeCur.Close(ctx)
	if rangeCur.Next(ctx) {
		var row struct {
			Start time.Time `bson:"start"`
			End   time.Time `bson:"end"`
		}
		if err := rangeCur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode time range: %w", err)
		}
		stats.TimeRangeStart = row.Start
		stats.TimeRangeEnd = row.End
	}

	// Distinct instrument count.
	instruments, err := r.col.Distinct(ctx, "instrument_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("instrument count: %w", err)
	}
	stats.InstrumentCount = int64(len(instruments))

	return stats, nil
}

func (r *MeasurementRepository) Summary(ctx context.Context, periodFormat string, typeID int64, limit int) ([]*ports.SummaryBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if typeID != 0 {
		match["type_id"] = typeID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": periodFormat,
				"date":   "$measure_time",
			}},
			"count":     bson.M{"$sum": 1},
			"avg_value": bson.M{"$avg": "$value"},
			"min_value": bson.M{"$min": "$value"},
			"max_value": bson.M{"$max": "$value"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer cur.Close(ctx)

	var out []*ports.SummaryBucket
	for cur.Next(ctx) {
		var row struct {
			Period   string  `bson:"_id"`
			Count    int64   `bson:"count"`
			AvgValue float64 `bson:"avg_value"`
			MinValue float64 `bson:"min_value"`
			MaxValue float64 `bson:"max_value"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode summary bucket: %w", err)
		}
		out = append(out, &ports.SummaryBucket{
			Period:   row.Period,
			Count:    row.Count,
			AvgValue: row.AvgValue,
			MinValue: row.MinValue,
			MaxValue: row.MaxValue,
		})
	}
	return out, cur.Err()
}

// EnsureIndexes creates the measurement query indexes.
func (r *MeasurementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "measure_time", Value: -1}}},
		{Keys: bson.D{{Key: "type_id", Value: 1}, {Key: "measure_time", Value: -1}}},
		{Keys: bson.D{{Key: "instrument_id", Value: 1}, {Key: "measure_time", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MeasurementRepository) typeNames(ctx context.Context) (map[int64]string, error) {
	cur, err := r.types.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load type names: %w", err)
	}
	defer cur.Close(ctx)

	names := make(map[int64]string)
	for cur.Next(ctx) {
		var t mongoType
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode type: %w", err)
		}
		names[t.ID] = t.Name
	}
	return names, cur.Err()
}
