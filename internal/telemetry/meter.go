package telemetry

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

const (
	noneMetricExporterType     metricExporterType = "none"
	consoleMetricExporterType  metricExporterType = "console"
	otlpHTTPMetricExporterType metricExporterType = "otlpHttp"
	otlpGrpcMetricExporterType metricExporterType = "otlpGrpc"

	metricReadInterval = time.Second
)

type metricExporterType string

type Meter struct {
	metric.Meter
	provider       *sdkmetric.MeterProvider
	metricExporter sdkmetric.Exporter
}

// NewMeter creates and configures the metrics collection.
func NewMeter(ctx context.Context, appName, appVersion string, writer io.Writer, opts *Options) (*Meter, error) {
	metricExporter, err := NewMetricExporter(ctx, writer, opts)
	if err != nil {
		return nil, errors.New(err)
	}

	if metricExporter == nil { // no exporter
		return nil, nil
	}

	provider, err := newMeterProvider(metricExporter, appName, appVersion)
	if err != nil {
		return nil, errors.New(err)
	}

	otel.SetMeterProvider(provider)

	return &Meter{
		Meter:          provider.Meter(appName),
		provider:       provider,
		metricExporter: metricExporter,
	}, nil
}

func newMeterProvider(exp sdkmetric.Exporter, appName, appVersion string) (*sdkmetric.MeterProvider, error) {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(appName),
			semconv.ServiceVersion(appVersion),
		),
	)
	if err != nil {
		return nil, errors.New(err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(r),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(metricReadInterval))),
	), nil
}

// NewMetricExporter creates a new exporter based on the telemetry options.
func NewMetricExporter(ctx context.Context, writer io.Writer, opts *Options) (sdkmetric.Exporter, error) {
	exporterType := metricExporterType(opts.MetricExporter)
	if exporterType == "" {
		exporterType = noneMetricExporterType
	}

	switch exporterType { //nolint:exhaustive
	case otlpHTTPMetricExporterType:
		var config []otlpmetrichttp.Option
		if opts.MetricExporterInsecureEndpoint {
			config = append(config, otlpmetrichttp.WithInsecure())
		}

		return otlpmetrichttp.New(ctx, config...)
	case otlpGrpcMetricExporterType:
		var config []otlpmetricgrpc.Option
		if opts.MetricExporterInsecureEndpoint {
			config = append(config, otlpmetricgrpc.WithInsecure())
		}

		return otlpmetricgrpc.New(ctx, config...)
	case consoleMetricExporterType:
		return stdoutmetric.New(stdoutmetric.WithWriter(writer))
	default:
		return nil, nil
	}
}

// Time collects the execution time of the given function as a histogram metric,
// along with success/error counters.
func (meter *Meter) Time(ctx context.Context, name string, attrs map[string]any, fn func(childCtx context.Context) error) error {
	if meter == nil || meter.metricExporter == nil { // invoke function without metrics collection
		return fn(ctx)
	}

	startTime := time.Now()
	err := fn(ctx)
	duration := time.Since(startTime)

	histogram, metricErr := meter.Int64Histogram(CleanMetricName(name+"_duration"), metric.WithUnit("ms"))
	if metricErr != nil {
		return errors.Join(err, metricErr)
	}

	histogram.Record(ctx, duration.Milliseconds(), metric.WithAttributes(mapToAttributes(attrs)...))

	if err != nil {
		meter.Count(ctx, name+"_errors", 1)
	} else {
		meter.Count(ctx, name+"_success", 1)
	}

	return err
}

// Count increments the named counter by the given value.
func (meter *Meter) Count(ctx context.Context, name string, value int64) {
	if meter == nil || meter.metricExporter == nil {
		return
	}

	counter, err := meter.Int64Counter(CleanMetricName(name + "_count"))
	if err != nil {
		return
	}

	counter.Add(ctx, value)
}
