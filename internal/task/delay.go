package task

import (
	"context"
	"time"
)

// Модуль common.Time — задержки внутри flow.
const ModTime = "common.Time"

// RegisterDelay регистрирует задачи модуля common.Time.
func RegisterDelay(r *Registry) {
	r.Register(ModTime, "sleep", Func(timeSleep))
}

// timeSleep ожидает указанное количество секунд.
//
// Params:
//   - duration_sec (number): длительность задержки в секундах (default: 1)
//
// Результат:
//   - slept_sec (number): фактически запрошенная длительность
func timeSleep(ctx context.Context, req *Request) (map[string]any, error) {
	durationSec := GetParamFloat(req.Params, "duration_sec", 1)
	if durationSec <= 0 {
		durationSec = 1
	}

	duration := time.Duration(durationSec * float64(time.Second))

	select {
	case <-time.After(duration):
		return map[string]any{"slept_sec": durationSec}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
