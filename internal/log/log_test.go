package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

func newJSONLogger(t *testing.T, lvl slog.Level) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Options{App: "blog", Level: lvl, JSON: true, IncludeErrorLinks: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, slog.LevelInfo)
	ctx := context.Background()

	l.Debug(ctx, "hidden")
	l.Info(ctx, "shown")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["msg"] != "shown" {
		t.Fatalf("msg = %v", lines[0]["msg"])
	}
	if lines[0]["app"] != "blog" {
		t.Fatalf("app = %v", lines[0]["app"])
	}
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	l, buf := newJSONLogger(t, slog.LevelInfo)
	ctx := context.Background()

	a := l.With("slug", "hello-world")
	b := l.With("slug", "other")
	a.Info(ctx, "a")
	b.Info(ctx, "b")
	l.Info(ctx, "base")

	lines := decodeLines(t, buf)
	if lines[0]["slug"] != "hello-world" || lines[1]["slug"] != "other" {
		t.Fatalf("derived loggers mixed attrs: %v / %v", lines[0]["slug"], lines[1]["slug"])
	}
	if _, ok := lines[2]["slug"]; ok {
		t.Fatal("base logger picked up a derived attribute")
	}
}

func TestLogger_OddKVIgnored(t *testing.T) {
	l, buf := newJSONLogger(t, slog.LevelInfo)
	l.Info(context.Background(), "odd", "k1", "v1", 42, "v2", "dangling")

	line := decodeLines(t, buf)[0]
	if line["k1"] != "v1" {
		t.Fatalf("k1 = %v", line["k1"])
	}
	if _, ok := line["dangling"]; ok {
		t.Fatal("dangling key should be dropped")
	}
}

func TestLogger_ErrorFields(t *testing.T) {
	l, buf := newJSONLogger(t, slog.LevelInfo)
	base := errors.New("file does not exist")
	err := xerrors.Wrap(base, "resolve slug")

	l.Error(context.Background(), err, "article lookup failed")

	line := decodeLines(t, buf)[0]
	if line["level"] != "ERROR" {
		t.Fatalf("level = %v", line["level"])
	}
	if line["err"] != "resolve slug: file does not exist" {
		t.Fatalf("err = %v", line["err"])
	}
	if line["cause_type"] != "*errors.errorString" {
		t.Fatalf("cause_type = %v", line["cause_type"])
	}
	chain, ok := line["error_chain"].([]any)
	if !ok || len(chain) != 2 {
		t.Fatalf("error_chain = %v", line["error_chain"])
	}
	if _, ok := line["error_links"]; !ok {
		t.Fatal("error_links missing")
	}
	stack, _ := line["stack"].(string)
	if !strings.Contains(stack, "TestLogger_ErrorFields") {
		t.Fatalf("stack should contain the caller, got %q", stack)
	}
}

func TestLogger_ErrorUsesCapturedStack(t *testing.T) {
	l, buf := newJSONLogger(t, slog.LevelInfo)
	err := producer()

	l.Error(context.Background(), err, "failed")

	stack, _ := decodeLines(t, buf)[0]["stack"].(string)
	if !strings.Contains(stack, "producer") {
		t.Fatalf("stack should come from the error, got %q", stack)
	}
}

func producer() error { return xerrors.New("from producer") }

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Options{App: "blog", Writer: &buf})
	l.Info(context.Background(), "plain", "k", "v")
	if !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("text output = %q", buf.String())
	}
}

func TestErrorChain_Join(t *testing.T) {
	err := errors.Join(fmt.Errorf("a.md: bad date"), fmt.Errorf("b.md: bad yaml"))
	chain := errorChain(err)
	if len(chain) != 3 {
		t.Fatalf("chain = %v", chain)
	}
	if chain[1] != "a.md: bad date" || chain[2] != "b.md: bad yaml" {
		t.Fatalf("chain = %v", chain)
	}
}

func TestErrorTypes_SkipsWrappers(t *testing.T) {
	type notFound struct{ error }
	err := xerrors.Wrap(fmt.Errorf("outer: %w", &notFound{errors.New("x")}), "ctx")
	surface, root := errorTypes(err)
	if !strings.Contains(surface, "notFound") {
		t.Fatalf("surface = %q", surface)
	}
	// notFound does not unwrap, so it is also the innermost error
	if root != surface {
		t.Fatalf("root = %q, want %q", root, surface)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext should fall back to Nop")
	}
	l, _ := newJSONLogger(t, slog.LevelInfo)
	ctx := WithContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("FromContext returned a different logger")
	}
	var nilLogger Logger
	ctx = WithContext(context.Background(), nilLogger)
	if FromContext(ctx) == nil {
		t.Fatal("nil logger in context should fall back to Nop")
	}
}

func TestNop(t *testing.T) {
	n := Nop()
	ctx := context.Background()
	n.With("k", "v").Info(ctx, "x")
	n.Debug(ctx, "x")
	n.Warn(ctx, "x")
	n.Error(ctx, errors.New("x"), "x")
	if err := n.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}
