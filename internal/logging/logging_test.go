package logging

import (
	"context"
	"testing"
)

func TestMissionIDRoundTrip(t *testing.T) {
	ctx := ContextWithMissionID(context.Background(), "msn-42")
	if got := MissionIDFromContext(ctx); got != "msn-42" {
		t.Errorf("MissionIDFromContext = %q, want msn-42", got)
	}
	if got := MissionIDFromContext(context.Background()); got != "" {
		t.Errorf("MissionIDFromContext on a bare context = %q, want empty", got)
	}
}

func TestWithMissionLoggerAnnotatesContext(t *testing.T) {
	ctx, log := WithMissionLogger(context.Background(), Noop(), "msn-42")
	if log == nil {
		t.Fatal("WithMissionLogger returned a nil logger")
	}
	if got := MissionIDFromContext(ctx); got != "msn-42" {
		t.Errorf("mission id on context = %q, want msn-42", got)
	}
	if LoggerFromContext(ctx) != log {
		t.Error("LoggerFromContext should return the annotated logger")
	}
}

func TestWithMissionLogger_EmptyIDKeepsBase(t *testing.T) {
	base := Noop()
	ctx, log := WithMissionLogger(context.Background(), base, "")
	if log != base {
		t.Error("empty mission id should return the base logger unchanged")
	}
	if LoggerFromContext(ctx) != base {
		t.Error("base logger should still be recoverable from the context")
	}
}

func TestWithMissionLogger_NilBaseFallsBackToNoop(t *testing.T) {
	ctx, log := WithMissionLogger(context.Background(), nil, "msn-42")
	if log == nil {
		t.Fatal("nil base should fall back to a noop logger")
	}
	log.Info(ctx, "must not panic")
}

func TestLoggerFromContext_Absent(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != nil {
		t.Errorf("LoggerFromContext on a bare context = %v, want nil", got)
	}
	if got := LoggerFromContext(nil); got != nil {
		t.Errorf("LoggerFromContext(nil) = %v, want nil", got)
	}
}
