// Package task содержит реализации задач и их реестр.
//
// Включает:
//   - task.go     — интерфейс Task и Request
//   - registry.go — реестр реализаций по паре (mod, method)
//   - kt.go       — эталонный модуль common.Kt
//   - http.go     — HTTP-запросы (common.HTTP)
//   - delay.go    — задержки (common.Time)
//
// Реестр наполняется при старте процесса; документы flow ссылаются
// на реализации литеральными парами mod/method.
package task
