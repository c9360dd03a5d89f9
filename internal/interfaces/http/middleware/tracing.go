package middleware

import (
	"net/http"

	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName identifies the server span's instrumentation.
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "reporting",
		Enabled:     true,
	}
}

// Tracing returns the middleware chain that opens a server span per request
// and annotates it. Spans are named "METHOD /route/:pattern" and error
// responses are marked with codes.Error.
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	return []gin.HandlerFunc{
		otelgin.Middleware(cfg.ServiceName),
		TracingAttributeInjector(),
		SpanErrorMarker(),
	}
}

// TracingAttributeInjector adds request-level attributes to the active span.
// It must run after otelgin so the span is in the request context.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}

func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if kind := c.Param("kind"); kind != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrReportKind, kind))
	}
}

// SpanErrorMarker marks spans of 4xx responses with error status. 5xx
// responses are marked by otelgin itself, which overwrites any status set
// here, so for those only the attributes are recorded.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("error.message", c.Errors.Last().Error()))
		}
		if status >= http.StatusInternalServerError {
			return
		}
		msg := "Client Error"
		switch status {
		case http.StatusNotFound:
			msg = "Not Found"
		case http.StatusRequestEntityTooLarge:
			msg = "Request Too Large"
		}
		span.SetStatus(codes.Error, msg)
	}
}
