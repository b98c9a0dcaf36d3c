package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartwater/monitoring-api/internal/core/ports"
)

// ReadingDispatcher is the interface the handler uses to enqueue batch readings.
type ReadingDispatcher interface {
	EnqueueBatch(readings []ports.ReadingInput)
}

// MeasurementHandler handles HTTP requests for sensor data.
type MeasurementHandler struct {
	service    ports.MeasurementService
	dispatcher ReadingDispatcher
}

func NewMeasurementHandler(service ports.MeasurementService, dispatcher ReadingDispatcher) *MeasurementHandler {
	return &MeasurementHandler{service: service, dispatcher: dispatcher}
}

// List handles GET /api/measurements.
//
// @Summary      List measurements
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        type_id        query  int     false  "Filter by monitoring type"
// @Param        instrument_id  query  string  false  "Filter by instrument"
// @Param        start_time     query  string  false  "RFC 3339 lower bound"
// @Param        end_time       query  string  false  "RFC 3339 upper bound"
// @Param        limit          query  int     false  "Page size (default 100)"
// @Param        offset         query  int     false  "Page offset"
// @Success      200  {object}  listMeasurementsResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/measurements [get]
func (h *MeasurementHandler) List(c echo.Context) error {
	filter := ports.MeasurementFilter{
		InstrumentID: c.QueryParam("instrument_id"),
	}
	if v := c.QueryParam("type_id"); v != "" {
		typeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "type_id must be an integer")
		}
		filter.TypeID = typeID
	}
	if v := c.QueryParam("start_time"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_time must be a valid timestamp")
		}
		filter.StartTime = t
	}
	if v := c.QueryParam("end_time"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_time must be a valid timestamp")
		}
		filter.EndTime = t
	}
	filter.Limit = intQueryParam(c, "limit", 100)
	filter.Offset = intQueryParam(c, "offset", 0)

	measurements, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	out := make([]measurementResponse, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, toMeasurementResponse(m))
	}
	return c.JSON(http.StatusOK, listMeasurementsResponse{
		Measurements: out,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

// Create handles POST /api/measurements.
//
// @Summary      Create a measurement
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMeasurementRequest  true  "New reading"
// @Success      201   {object}  measurementResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/measurements [post]
func (h *MeasurementHandler) Create(c echo.Context) error {
	var req createMeasurementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	measureTime, err := parseTime(req.MeasureTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "measure_time must be a valid timestamp")
	}

	m, err := h.service.Create(c.Request().Context(), ports.CreateMeasurementInput{
		TypeID:       req.TypeID,
		InstrumentID: req.InstrumentID,
		MeasureTime:  measureTime,
		Value:        *req.Value,
		WaterLevel:   req.WaterLevel,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMeasurementResponse(m))
}

// Update handles PUT /api/measurements/:id.
//
// @Summary      Update a measurement
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Measurement id"
// @Param        body  body      updateMeasurementRequest  true  "Fields to update"
// @Success      200   {object}  measurementResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/measurements/{id} [put]
func (h *MeasurementHandler) Update(c echo.Context) error {
	var req updateMeasurementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	update := ports.MeasurementUpdate{
		Value:      req.Value,
		WaterLevel: req.WaterLevel,
	}
	if req.MeasureTime != nil {
		t, err := parseTime(*req.MeasureTime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "measure_time must be a valid timestamp")
		}
		update.MeasureTime = &t
	}

	m, err := h.service.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMeasurementResponse(m))
}

// Delete handles DELETE /api/measurements/:id.
//
// @Summary      Delete a measurement
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Measurement id"
// @Success      200  {object}  deleteMeasurementResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/measurements/{id} [delete]
func (h *MeasurementHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteMeasurementResponse{ID: id})
}

// CreateBatch handles POST /api/measurements/batch. Readings are enqueued
// into the sharded dispatcher and the request is acknowledged with 202.
//
// @Summary      Ingest a batch of readings
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchReadingsRequest  true  "Readings"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/measurements/batch [post]
func (h *MeasurementHandler) CreateBatch(c echo.Context) error {
	var req batchReadingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	readings := make([]ports.ReadingInput, 0, len(req.Readings))
	for _, r := range req.Readings {
		measureTime, err := parseTime(r.MeasureTime)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "measure_time must be a valid timestamp")
		}
		readings = append(readings, toReadingInput(r, measureTime))
	}

	h.dispatcher.EnqueueBatch(readings)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message:  "readings accepted",
		Accepted: len(readings),
	})
}

// Statistics handles GET /api/statistics.
//
// @Summary      Dataset statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statisticsResponse
// @Router       /api/statistics [get]
func (h *MeasurementHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return err
	}

	out := statisticsResponse{
		TotalMeasurements: stats.TotalMeasurements,
		TypeStatistics:    make([]typeStatResponse, 0, len(stats.TypeStatistics)),
		TimeRange: timeRangeResponse{
			Start: stats.TimeRangeStart,
			End:   stats.TimeRangeEnd,
		},
		InstrumentCount: stats.InstrumentCount,
	}
	for _, ts := range stats.TypeStatistics {
		out.TypeStatistics = append(out.TypeStatistics, typeStatResponse{
			Name:     ts.Name,
			Count:    ts.Count,
			AvgValue: ts.AvgValue,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Summary handles GET /api/measurements/summary.
//
// @Summary      Interval summary
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        interval  query  string  false  "day, week, month, or year (default month)"
// @Param        type_id   query  int     false  "Filter by monitoring type"
// @Param        limit     query  int     false  "Number of buckets (default 12)"
// @Success      200  {array}  summaryBucketResponse
// @Router       /api/measurements/summary [get]
func (h *MeasurementHandler) Summary(c echo.Context) error {
	input := ports.SummaryInput{
		Interval: c.QueryParam("interval"),
		Limit:    intQueryParam(c, "limit", 12),
	}
	if input.Interval == "" {
		input.Interval = "month"
	}
	if v := c.QueryParam("type_id"); v != "" {
		typeID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "type_id must be an integer")
		}
		input.TypeID = typeID
	}

	buckets, err := h.service.Summary(c.Request().Context(), input)
	if err != nil {
		return err
	}

	out := make([]summaryBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, summaryBucketResponse{
			Period:   b.Period,
			Count:    b.Count,
			AvgValue: b.AvgValue,
			MinValue: b.MinValue,
			MaxValue: b.MaxValue,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// parseTime accepts RFC 3339 or a plain "2006-01-02 15:04:05" timestamp,
// which is what most datalogger exports use.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

func intQueryParam(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
