package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// fakeSink собирает записи в памяти.
type fakeSink struct {
	levels   []string
	names    []string
	messages []string
	err      error
}

func (s *fakeSink) Insert(_ context.Context, level, loggerName, message string) error {
	if s.err != nil {
		return s.err
	}
	s.levels = append(s.levels, level)
	s.names = append(s.names, loggerName)
	s.messages = append(s.messages, message)
	return nil
}

func newTestLogger(sink LogSink) *slog.Logger {
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewDBHandler(inner, sink, "test-service"))
}

func TestDBHandler_RecordsToSink(t *testing.T) {
	sink := &fakeSink{}
	logger := newTestLogger(sink)

	logger.Info("run started", "flow", "demo")
	logger.Error("run failed", "task", "t1")

	if len(sink.messages) != 2 {
		t.Fatalf("expected 2 records, got %d", len(sink.messages))
	}
	if sink.levels[0] != "INFO" || sink.levels[1] != "ERROR" {
		t.Errorf("unexpected levels: %v", sink.levels)
	}
	if sink.names[0] != "test-service" {
		t.Errorf("expected logger name 'test-service', got %q", sink.names[0])
	}
	if !strings.Contains(sink.messages[0], "run started") || !strings.Contains(sink.messages[0], "flow=demo") {
		t.Errorf("message should contain text and attrs, got %q", sink.messages[0])
	}
}

func TestDBHandler_WithAttrsCarried(t *testing.T) {
	sink := &fakeSink{}
	logger := newTestLogger(sink).With("run_id", "abc123")

	logger.Info("tick")

	if len(sink.messages) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.messages))
	}
	if !strings.Contains(sink.messages[0], "run_id=abc123") {
		t.Errorf("bound attrs should appear in message, got %q", sink.messages[0])
	}
}

func TestDBHandler_SinkErrorSwallowed(t *testing.T) {
	sink := &fakeSink{err: errors.New("db down")}
	logger := newTestLogger(sink)

	// Ошибка приёмника не должна всплывать наружу.
	logger.Info("still works")
}

func TestDBHandler_NilSink(t *testing.T) {
	logger := newTestLogger(nil)
	logger.Info("no sink configured")
}
