// Package scheduler — автоматический запуск flow по расписанию.
//
// Включает:
//   - scheduler.go — тик-цикл обработки due schedules
//   - cron.go      — вычисление next_due_at (cron или интервал)
//
// Планировщик выполняет flow в своём процессе, через общий движок.
package scheduler
