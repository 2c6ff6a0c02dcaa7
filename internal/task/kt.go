package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Conveyor/internal/telemetry"
)

// Модуль common.Kt — эталонные задачи для демонстрации и тестов.
//
// Методы:
//   - prt  — логирует msg и возвращает {"msg": msg}
//   - prt1 — логирует msg и возвращает {"status": 0, "msg": "ret from <msg>"}
//   - prt2 — то же, что prt1
const ModKt = "common.Kt"

// RegisterKt регистрирует задачи модуля common.Kt.
func RegisterKt(r *Registry) {
	r.Register(ModKt, "prt", Func(ktPrt))
	r.Register(ModKt, "prt1", Func(ktPrtStatus))
	r.Register(ModKt, "prt2", Func(ktPrtStatus))
}

// ktPrt логирует сообщение и возвращает его без изменений.
func ktPrt(ctx context.Context, req *Request) (map[string]any, error) {
	msg := req.Params["msg"]
	telemetry.FromContext(ctx).Info("kt.prt", slog.String("task", req.TaskName), slog.Any("msg", msg))
	return map[string]any{
		"msg": msg,
	}, nil
}

// ktPrtStatus логирует сообщение и возвращает результат со статусом.
func ktPrtStatus(ctx context.Context, req *Request) (map[string]any, error) {
	msg := req.Params["msg"]
	telemetry.FromContext(ctx).Info("kt.prt", slog.String("task", req.TaskName), slog.Any("msg", msg))
	return map[string]any{
		"status": 0,
		"msg":    fmt.Sprintf("ret from %v", msg),
	}, nil
}
