package instrumentation

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the OpenTelemetry settings.
type Config struct {
	// ServiceName defaults to meeting-mcp.
	ServiceName    string
	ServiceVersion string

	// ServiceInstanceID falls back to the hostname when empty.
	ServiceInstanceID string

	K8sNamespace string
	K8sPodName   string

	// Enabled turns metrics and tracing on. INSTRUMENTATION_ENABLED=false disables both.
	Enabled bool

	// MetricsExporter is one of prometheus, otlp, stdout.
	MetricsExporter string

	// TracingExporter is one of otlp, stdout, none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP. Local development only.
	OTLPInsecure bool

	// TraceSamplingRate is between 0 and 1.
	TraceSamplingRate float64

	PrometheusEndpoint string

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the per-invocation audit records.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeBotIDs adds the bot id to audit records. Bot ids are bearer-like
	// handles to recordings, so they are left out unless asked for.
	IncludeBotIDs bool
}

// DefaultConfig reads the configuration from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:        envString("OTEL_SERVICE_NAME", "meeting-mcp"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  envString("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:       envString("K8S_NAMESPACE", envString("POD_NAMESPACE", "")),
		K8sPodName:         envString("K8S_POD_NAME", envString("HOSTNAME", "")),
		Enabled:            envBool("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    envString("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    envString("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:       envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:       envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate:  envFloat("OTEL_TRACES_SAMPLER_ARG", 0.1),
		PrometheusEndpoint: envString("PROMETHEUS_ENDPOINT", "/metrics"),
		AuditLogging: AuditLoggingConfig{
			Enabled:       envBool("AUDIT_LOGGING_ENABLED", true),
			IncludeBotIDs: envBool("AUDIT_LOGGING_INCLUDE_BOT_IDS", false),
		},
	}
}

// Validate reports the first invalid setting.
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
		return fmt.Errorf("OTLP endpoint is required when using an OTLP exporter")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 10 * time.Second
)
