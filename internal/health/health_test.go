package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCombinators(t *testing.T) {
	ctx := context.Background()
	ok, bad := Fixed(true, ""), Fixed(false, "content missing")

	tests := []struct {
		name    string
		p       Probe
		wantErr string
	}{
		{"fixed ok", ok, ""},
		{"fixed default reason", Fixed(false, ""), "unhealthy"},
		{"all ok", All(ok, nil, ok), ""},
		{"all first error", All(ok, bad, Fixed(false, "second")), "content missing"},
		{"all empty", All(), ""},
		{"any one ok", Any(bad, ok), ""},
		{"any last error", Any(bad, Fixed(false, "last")), "last"},
		{"any empty", Any(nil), "no healthy probes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Check(ctx)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("err = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

type contentStatus struct{ err error }

func (c contentStatus) ReadyErr() error { return c.err }

func TestContentLoaded(t *testing.T) {
	ctx := context.Background()
	if err := ContentLoaded(contentStatus{}).Check(ctx); err != nil {
		t.Fatalf("loaded content: %v", err)
	}
	want := errors.New("no content snapshot loaded")
	if err := ContentLoaded(contentStatus{err: want}).Check(ctx); !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}
	if err := ContentLoaded(nil).Check(ctx); err == nil {
		t.Fatal("nil status should fail")
	}
}

func TestShutdownGate(t *testing.T) {
	var g ShutdownGate
	p := g.Probe()
	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("fresh gate: %v", err)
	}
	g.Set("")
	if err := p.Check(context.Background()); err == nil || err.Error() != "draining" {
		t.Fatalf("err = %v, want draining", err)
	}
	g.Set("shutting down")
	if err := p.Check(context.Background()); err == nil || err.Error() != "shutting down" {
		t.Fatalf("err = %v", err)
	}
	g.Clear()
	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("cleared gate: %v", err)
	}
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name     string
		h        http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{"healthz ok", HealthzHandler(Fixed(true, "")), http.StatusOK, "ok"},
		{"healthz nil", HealthzHandler(nil), http.StatusOK, "ok"},
		{"healthz failing", HealthzHandler(Fixed(false, "disk gone")), http.StatusServiceUnavailable, "disk gone"},
		{"readyz ok", ReadyzHandler(Fixed(true, "")), http.StatusOK, "ready"},
		{"readyz content", ReadyzHandler(ContentLoaded(contentStatus{err: errors.New("no content")})), http.StatusServiceUnavailable, "no content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("Cache-Control") != "no-store" {
				t.Error("health responses must not be cached")
			}
		})
	}
}
