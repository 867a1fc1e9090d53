package otelx

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{Enabled: false, Endpoint: "ignored:4317"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("provider = %T", otel.GetTracerProvider())
	}

	_, span := otel.Tracer("test").Start(context.Background(), "article.render")
	if span.SpanContext().IsSampled() {
		t.Error("disabled tracing must not sample")
	}
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInit_Propagator(t *testing.T) {
	if _, err := Init(context.Background(), Options{}); err != nil {
		t.Fatal(err)
	}
	carrier := propagation.HeaderCarrier(http.Header{})
	carrier.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), carrier)

	out := propagation.HeaderCarrier(http.Header{})
	otel.GetTextMapPropagator().Inject(ctx, out)
	if out.Get("traceparent") == "" {
		t.Fatal("traceparent not propagated")
	}
}

func TestInit_EnabledNeedsEndpoint(t *testing.T) {
	if _, err := Init(context.Background(), Options{Enabled: true}); err == nil {
		t.Fatal("expected error without endpoint")
	}
}

func TestServiceName(t *testing.T) {
	tests := []struct {
		o    Options
		want string
	}{
		{Options{}, "linnemanlabs-blog"},
		{Options{Component: "server"}, "linnemanlabs-blog.server"},
		{Options{Service: "blog", Component: "build"}, "blog.build"},
	}
	for _, tt := range tests {
		if got := tt.o.ServiceName(); got != tt.want {
			t.Errorf("ServiceName(%+v) = %q, want %q", tt.o, got, tt.want)
		}
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0: 0, 0.25: 0.25, 1: 1, 7: 1} {
		if got := clampRatio(in); got != want {
			t.Errorf("clampRatio(%v) = %v", in, got)
		}
	}
}
