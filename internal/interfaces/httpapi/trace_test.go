package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: "/readyz", want: false},
		{path: " /HEALTH ", want: false},
		{path: "/v1/leagues/99/luck", want: true},
		{path: "/v1/gameweeks/5/status", want: true},
		{path: "/", want: true},
	}

	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}

func TestStartSpan_TagsRouteIDs(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/leagues/{leagueID}/entries/{entryID}/gameweeks/{gameweek}/score", func(w http.ResponseWriter, r *http.Request) {
		_, span := startSpan(r, "GetEntryScore")
		span.End()
	})

	ctx, parent := provider.Tracer("test").Start(context.Background(), "GET /v1/leagues/99/entries/7/gameweeks/5/score")
	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/99/entries/7/gameweeks/5/score", nil).WithContext(ctx)
	mux.ServeHTTP(httptest.NewRecorder(), req)
	parent.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected handler and request spans, got %d", len(spans))
	}
	handlerSpan, requestSpan := spans[0], spans[1]
	if handlerSpan.Name() != "httpapi.Handler.GetEntryScore" {
		t.Fatalf("unexpected handler span name: %s", handlerSpan.Name())
	}
	if handlerSpan.Parent().SpanID() != requestSpan.SpanContext().SpanID() {
		t.Fatalf("handler span must be a child of the request span")
	}
	if requestSpan.Name() != "GET /v1/leagues/{leagueID}/entries/{entryID}/gameweeks/{gameweek}/score" {
		t.Fatalf("request span must carry the route pattern, got %s", requestSpan.Name())
	}

	want := map[attribute.Key]int64{"fpl.league_id": 99, "fpl.entry_id": 7, "fpl.gameweek": 5}
	got := make(map[attribute.Key]int64)
	for _, kv := range handlerSpan.Attributes() {
		got[kv.Key] = kv.Value.AsInt64()
	}
	for key, value := range want {
		if got[key] != value {
			t.Fatalf("handler span attribute %s=%d want=%d", key, got[key], value)
		}
	}

	route := ""
	for _, kv := range requestSpan.Attributes() {
		if kv.Key == "http.route" {
			route = kv.Value.AsString()
		}
	}
	if route != "/v1/leagues/{leagueID}/entries/{entryID}/gameweeks/{gameweek}/score" {
		t.Fatalf("unexpected http.route: %q", route)
	}
}

func TestStartSpan_NoRequestSpan(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/99/luck?preset=primary", nil)
	_, span := startSpan(req, "GetSeasonLuck")
	defer span.End()
	if span.IsRecording() {
		t.Fatalf("handler span must not record without a request span")
	}
}

func TestRouteAttributes_PresetAndNonNumericIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/abc/luck?preset=debug_v1", nil)
	req.SetPathValue("leagueID", "abc")

	attrs := routeAttributes(req)
	if len(attrs) != 2 {
		t.Fatalf("expected league and preset attributes, got %v", attrs)
	}
	if attrs[0].Key != "fpl.league_id" || attrs[0].Value.AsString() != "abc" {
		t.Fatalf("unparseable ids must be kept as strings, got %v", attrs[0])
	}
	if attrs[1].Key != "fpl.luck_preset" || attrs[1].Value.AsString() != "debug_v1" {
		t.Fatalf("unexpected preset attribute: %v", attrs[1])
	}
}
