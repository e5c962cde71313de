package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gregleo12/fpl-sub001/internal/interfaces/httpapi"

// routeParams maps path wildcards to the span attributes they are recorded as.
var routeParams = []struct {
	wildcard string
	key      attribute.Key
}{
	{wildcard: "leagueID", key: "fpl.league_id"},
	{wildcard: "entryID", key: "fpl.entry_id"},
	{wildcard: "gameweek", key: "fpl.gameweek"},
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "fpl-h2h-engine-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch normalized {
	case "/healthz", "/health", "/livez", "/readyz":
		return false
	default:
		return true
	}
}

// startSpan opens a handler span under the request span, on the request
// span's provider. The request span is renamed to the matched route and the
// league, entry and gameweek ids go on both spans as attributes.
func startSpan(r *http.Request, method string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}

	attrs := routeAttributes(r)
	if r.Pattern != "" {
		parent.SetName(r.Pattern)
		parent.SetAttributes(attribute.String("http.route", routePath(r.Pattern)))
	}
	parent.SetAttributes(attrs...)
	return parent.TracerProvider().Tracer(tracerName).Start(ctx, "httpapi.Handler."+method, trace.WithAttributes(attrs...))
}

func routeAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(routeParams)+1)
	for _, param := range routeParams {
		raw := r.PathValue(param.wildcard)
		if raw == "" {
			continue
		}
		if id, err := strconv.Atoi(raw); err == nil {
			attrs = append(attrs, param.key.Int(id))
			continue
		}
		attrs = append(attrs, param.key.String(raw))
	}
	if preset := strings.TrimSpace(r.URL.Query().Get("preset")); preset != "" {
		attrs = append(attrs, attribute.String("fpl.luck_preset", preset))
	}
	return attrs
}

// routePath drops the method from a mux pattern such as "GET /v1/...".
func routePath(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
