package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "cms-auth"

// Outcomes recorded on auth instruments.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AuthRequestsTotal      metric.Int64Counter
	AuthDurationSeconds    metric.Float64Histogram
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.AuthRequestsTotal, err = meter.Int64Counter(
		"auth_requests_total",
		metric.WithDescription("Total number of auth operations by operation and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create auth_requests_total: %w", err)
	}

	m.AuthDurationSeconds, err = meter.Float64Histogram(
		"auth_duration_seconds",
		metric.WithDescription("Duration of auth operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create auth_duration_seconds: %w", err)
	}

	m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create db_query_duration_seconds: %w", err)
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create db_query_errors_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global instruments once, from the global
// MeterProvider. Call after tracer.InitTracingAndMetrics.
func InitAppMetrics() error {
	var err error
	once.Do(func() {
		appMetrics, err = New(otel.GetMeterProvider().Meter(meterName))
	})
	return err
}

// Get returns the global instruments, or nil before InitAppMetrics has run.
// The Record methods are no-ops on a nil receiver.
func Get() *AppMetrics {
	return appMetrics
}

// RecordAuth counts one auth operation and its latency.
func (m *AppMetrics) RecordAuth(ctx context.Context, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.AuthRequestsTotal.Add(ctx, 1, attrs)
	m.AuthDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

// RecordQuery tracks a repository query.
func (m *AppMetrics) RecordQuery(ctx context.Context, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("db.operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
