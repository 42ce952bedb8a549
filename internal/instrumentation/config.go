package instrumentation

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Exporter names accepted by METRICS_EXPORTER and TRACING_EXPORTER.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Label values shared by the metrics and the audit log.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ServiceMotion = "motion"
)

// Config controls metrics, tracing and audit logging.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled turns the whole provider into a no-op when false.
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout.
	MetricsExporter string

	// TracingExporter is one of otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP. Local collectors only.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio in [0, 1].
	TraceSamplingRate float64

	// DetailedLabels adds workspace IDs to tool metrics.
	DetailedLabels bool

	// ConsoleWriter receives the stdout exporters' output. Defaults to
	// os.Stderr because stdout carries the stdio MCP transport.
	ConsoleWriter io.Writer

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the tool audit log.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludePII writes task names and search text verbatim. Otherwise
	// only their length is logged.
	IncludePII bool
}

// DefaultConfig reads the configuration from the process environment.
func DefaultConfig() Config {
	return configFromEnv(os.Getenv)
}

type envLookup func(key string) string

func configFromEnv(getenv envLookup) Config {
	env := envReader(getenv)
	return Config{
		ServiceName:       env.str("OTEL_SERVICE_NAME", "motionmcp"),
		ServiceVersion:    "unknown",
		Enabled:           env.boolean("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   env.str("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   env.str("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      env.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: env.float("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    env.boolean("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    env.boolean("AUDIT_LOGGING_ENABLED", true),
			IncludePII: env.boolean("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" && (c.TracingExporter == ExporterOTLP || c.MetricsExporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when an exporter is set to otlp; set OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	return nil
}

func (c *Config) consoleWriter() io.Writer {
	if c.ConsoleWriter != nil {
		return c.ConsoleWriter
	}
	return os.Stderr
}

// envReader falls back to the default when a variable is unset or does
// not parse.
type envReader envLookup

func (e envReader) str(key, def string) string {
	if v := e(key); v != "" {
		return v
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	v, err := strconv.ParseBool(e(key))
	if err != nil {
		return def
	}
	return v
}

func (e envReader) float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(e(key), 64)
	if err != nil {
		return def
	}
	return v
}
