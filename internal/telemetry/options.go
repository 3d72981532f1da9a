package telemetry

import (
	"github.com/gruntwork-io/go-commons/env"
)

// Environment variables that select and configure the exporters.
const (
	envTraceExporter                 = "CI_MONITOR_TELEMETRY_TRACE_EXPORTER"
	envTraceExporterInsecureEndpoint = "CI_MONITOR_TELEMETRY_TRACE_EXPORTER_INSECURE_ENDPOINT"
	envTraceExporterHTTPEndpoint     = "CI_MONITOR_TELEMETRY_TRACE_EXPORTER_HTTP_ENDPOINT"
	envTraceParent                   = "TRACEPARENT"

	envMetricExporter                 = "CI_MONITOR_TELEMETRY_METRIC_EXPORTER"
	envMetricExporterInsecureEndpoint = "CI_MONITOR_TELEMETRY_METRIC_EXPORTER_INSECURE_ENDPOINT"
)

// Options defines how traces and metrics are exported. Telemetry is
// disabled by default and opted into through environment variables.
type Options struct {
	TraceExporter                 string
	TraceExporterInsecureEndpoint bool
	TraceExporterHTTPEndpoint     string
	TraceParent                   string

	MetricExporter                 string
	MetricExporterInsecureEndpoint bool
}

// NewOptionsFromEnv builds Options from the given environment variables.
func NewOptionsFromEnv(envVars map[string]string) *Options {
	return &Options{
		TraceExporter:                 env.GetString(envVars[envTraceExporter], string(noneTraceExporterType)),
		TraceExporterInsecureEndpoint: env.GetBool(envVars[envTraceExporterInsecureEndpoint], false),
		TraceExporterHTTPEndpoint:     env.GetString(envVars[envTraceExporterHTTPEndpoint], ""),
		TraceParent:                   env.GetString(envVars[envTraceParent], ""),

		MetricExporter:                 env.GetString(envVars[envMetricExporter], string(noneMetricExporterType)),
		MetricExporterInsecureEndpoint: env.GetBool(envVars[envMetricExporterInsecureEndpoint], false),
	}
}
