// Package repo содержит репозитории для работы с PostgreSQL.
//
// Таблицы:
//   - flows      — определения flow, ключ — уникальное flow_name;
//     удаление всегда мягкое (deleted = TRUE)
//   - runs       — история запусков с финальным контекстом
//   - schedules  — расписания автоматических запусков
//   - system_log — системные логи (level, logger_name, message)
//
// Все репозитории принимают context.Context и возвращают ErrNotFound
// при отсутствии записи.
package repo
