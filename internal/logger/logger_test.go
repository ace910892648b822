package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func plain(buf *bytes.Buffer, level slog.Level) Logger {
	h := NewPrettyHandler(buf, &slog.HandlerOptions{Level: level})
	h.NoColor = true
	return New(h)
}

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("decoded", "slot", "effects_0", "count", 3)

	out := buf.String()
	for _, want := range []string{`"msg":"decoded"`, `"slot":"effects_0"`, `"count":3`, `"level":"INFO"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Text(&buf, slog.LevelWarn)
	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn message, got: %s", buf.String())
	}
}

func TestPrettyLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	plain(&buf, slog.LevelInfo).Info("wrote blob", "path", "out dir/a.eff", "bytes", 4096)

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Fatalf("NoColor output has escape codes: %q", out)
	}
	for _, want := range []string{"INFO  wrote blob", `path="out dir/a.eff"`, "bytes=4096"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("line not terminated: %q", out)
	}
}

func TestPrettyColours(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	Pretty(&buf, slog.LevelDebug).Error("boom")
	if !strings.Contains(buf.String(), ansiRed) {
		t.Fatalf("expected red error level, got %q", buf.String())
	}
}

func TestPrettyWithAndGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := plain(&buf, slog.LevelInfo).With("cmd", "extract").WithGroup("blob").WithGroup("slot")
	log.Info("done", "name", "paths", slog.Group("size", "points", 4))

	out := buf.String()
	for _, want := range []string{"cmd=extract", "blob.slot.name=paths", "blob.slot.size.points=4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestPrettyEmptyGroupName(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	if h.WithGroup("") != slog.Handler(h) {
		t.Fatalf("empty group should return the same handler")
	}
}

func TestPrettyErrorValue(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	plain(&buf, slog.LevelInfo).Error("failed", "err", errors.New("bad offset"))
	if !strings.Contains(buf.String(), `err="bad offset"`) {
		t.Fatalf("error attr not quoted: %q", buf.String())
	}
}

func TestNewFormat(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"", "pretty", "JSON", "text"} {
		var buf bytes.Buffer
		log, err := NewFormat(&buf, format, slog.LevelInfo)
		if err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		log.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Fatalf("format %q: no output", format)
		}
	}
	if _, err := NewFormat(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewFormatPlainFile(t *testing.T) {
	t.Parallel()
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()

	log, err := NewFormat(f, FormatPretty, slog.LevelInfo)
	if err != nil {
		t.Fatalf("new format: %v", err)
	}
	log.Error("boom")
	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(out), "boom") || strings.Contains(string(out), "\x1b[") {
		t.Fatalf("unexpected file output: %q", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := plain(&buf, slog.LevelInfo)
	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Fatalf("logger from context did not write: %q", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatalf("FromContext without logger returned nil")
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	if Discard().Slog().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger should drop errors")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{"simple": false, "": true, "a b": true, "k=v": true, `q"`: true, "tab\t": true}
	for in, want := range cases {
		if got := needsQuoting(in); got != want {
			t.Fatalf("needsQuoting(%q) = %v, want %v", in, got, want)
		}
	}
}
