package veneer

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// captureLogs routes the package logger into a buffer for the duration of the
// test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDebugMode_LogsFrameStats(t *testing.T) {
	buf := captureLogs(t)
	_, _, s := newTestScene(1)
	s.SetDebugMode(true)
	a := s.NewSurface(SurfaceOptions{})
	tg := &toggle{target: a, on: true}
	s.Root().Add(tg)
	s.Root().Add(s.NewSurface(SurfaceOptions{}))

	s.Commit()
	tg.on = false
	s.Commit()

	out := buf.String()
	for _, want := range []string{
		`msg="veneer: frame"`,
		"committed=2",
		"committed=1 hidden=1 recycled=1 live=1",
		"resolve=",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestReleaseMode_NoFrameStats(t *testing.T) {
	buf := captureLogs(t)
	_, _, s := newTestScene(0)
	s.Root().Add(s.NewSurface(SurfaceOptions{}))
	s.Commit()
	if strings.Contains(buf.String(), "veneer: frame") {
		t.Errorf("frame stats logged with debug off:\n%s", buf.String())
	}
}

func TestDebugLog_PoolGrowthAndSurfaceLifecycle(t *testing.T) {
	buf := captureLogs(t)
	_, _, a := newTestAllocator()
	s := NewSurface(nil, SurfaceOptions{})
	s.Commit(CommitContext{DrawCommand: at(0, 0), Allocator: a})
	s.Cleanup(a)

	out := buf.String()
	for _, want := range []string{"veneer: pool grew", "veneer: surface setup", "veneer: surface cleanup"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestWarnOnUnregisteredLeaf(t *testing.T) {
	buf := captureLogs(t)
	_, _, s := newTestScene(0)
	s.Root().Add(&item{id: 12})
	s.Commit()
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "id=12") {
		t.Errorf("expected a warning naming id 12:\n%s", out)
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
}
