// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (репозитории, runner, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - flow_handler.go     — обработчики для /flows
//   - run_handler.go      — обработчики для /runs (включая синхронный запуск)
//   - schedule_handler.go — обработчики для /schedules
//
// API предоставляет REST endpoints для управления flows, runs и schedules.
// Запуск flow — синхронный: POST /flows/{name}/runs выполняет flow и
// возвращает итоговый run вместе с финальным контекстом.
package api
