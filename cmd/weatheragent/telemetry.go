package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// setupTelemetry installs a tracer provider when a monitoring connection
// string is configured; otherwise tracing stays on the global no-op
// provider and every span call is inert.
//
// The sample exports spans to stdout. A production deployment would swap
// in the exporter for the monitoring backend the connection string points
// at; the rest of the module only sees the otel API and does not change.
func setupTelemetry(ctx context.Context, cfg *Config, logger *slog.Logger) (func(), error) {
	if cfg.MonitorConnectionString == "" {
		logger.Warn("APPLICATIONINSIGHTS_CONNECTION_STRING not set, telemetry disabled")
		return func() {}, nil
	}

	exporter, err := stdouttrace.New()
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	logger.Info("telemetry configured")

	return func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}, nil
}
