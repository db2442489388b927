package observability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
)

type OtelConfig struct {
	ServiceName string
	Environment string
	Version     string
	// Exporter is "otlp", "stdout" or empty. Empty disables tracing.
	Exporter     string
	OTLPEndpoint string
	Insecure     bool
	SampleRatio  float64
}

// OtelConfigFromEnv reads OTEL_EXPORTER, OTEL_EXPORTER_OTLP_ENDPOINT and friends.
func OtelConfigFromEnv(serviceName string) OtelConfig {
	ratio := 1.0
	if raw := envutil.String("OTEL_SAMPLER_RATIO", ""); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			ratio = f
		}
	}
	return OtelConfig{
		ServiceName:  serviceName,
		Environment:  envutil.String("APP_ENV", "development"),
		Version:      envutil.String("SERVICE_VERSION", "dev"),
		Exporter:     strings.ToLower(envutil.String("OTEL_EXPORTER", "")),
		OTLPEndpoint: envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Insecure:     envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		SampleRatio:  ratio,
	}
}

// InitOTel installs the global tracer provider. The returned shutdown func is never nil.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg.Exporter == "" {
		return noop, nil
	}
	exporter, err := buildTraceExporter(ctx, cfg)
	if err != nil {
		return noop, err
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "learnpath"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(cfg.Version),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	ratio := cfg.SampleRatio
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("otel tracing initialized", "service", serviceName, "exporter", cfg.Exporter)
	return tp.Shutdown, nil
}

func buildTraceExporter(ctx context.Context, cfg OtelConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterOTLP:
		var opts []otlptracehttp.Option
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unknown OTEL_EXPORTER %q", cfg.Exporter)
	}
}
