package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every belote span.
const TracerName = "github.com/Black-And-White-Club/belote-tracker"

// Tracer returns the belote tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
