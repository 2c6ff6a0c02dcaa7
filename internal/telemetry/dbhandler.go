package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogSink — приёмник лог-записей в хранилище.
// Реализуется repo.LogRepo; в тестах подменяется фейком.
type LogSink interface {
	Insert(ctx context.Context, level, loggerName, message string) error
}

// DBHandler — slog.Handler, дублирующий записи в таблицу system_log.
//
// Оборачивает внутренний handler (консоль/файл) и дополнительно
// пишет каждую запись в хранилище. Ошибки записи в хранилище
// проглатываются: логирование никогда не должно останавливать
// основное выполнение.
type DBHandler struct {
	inner      slog.Handler
	sink       LogSink
	loggerName string
	attrs      []slog.Attr
}

// NewDBHandler создаёт DBHandler поверх внутреннего handler'а.
func NewDBHandler(inner slog.Handler, sink LogSink, loggerName string) *DBHandler {
	return &DBHandler{
		inner:      inner,
		sink:       sink,
		loggerName: loggerName,
	}
}

// Enabled реализует slog.Handler.
func (h *DBHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle реализует slog.Handler: запись уходит во внутренний handler,
// затем — в хранилище (best-effort).
func (h *DBHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.inner.Handle(ctx, record)

	if h.sink != nil {
		msg := formatRecord(record, h.attrs)
		// Ошибка приёмника не должна прерывать выполнение.
		_ = h.sink.Insert(ctx, record.Level.String(), h.loggerName, msg)
	}

	return err
}

// WithAttrs реализует slog.Handler.
func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{
		inner:      h.inner.WithAttrs(attrs),
		sink:       h.sink,
		loggerName: h.loggerName,
		attrs:      merged,
	}
}

// WithGroup реализует slog.Handler.
func (h *DBHandler) WithGroup(name string) slog.Handler {
	return &DBHandler{
		inner:      h.inner.WithGroup(name),
		sink:       h.sink,
		loggerName: h.loggerName,
		attrs:      h.attrs,
	}
}

// formatRecord собирает сообщение и атрибуты в одну строку
// для колонки message.
func formatRecord(record slog.Record, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(record.Message)

	for _, attr := range attrs {
		fmt.Fprintf(&b, " %s=%v", attr.Key, attr.Value)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", attr.Key, attr.Value)
		return true
	})

	return b.String()
}
