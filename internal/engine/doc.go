// Package engine содержит движок последовательного выполнения flow.
//
// Включает:
//   - parser.go   — парсинг и валидация документа flow из JSON
//   - loader.go   — загрузка документа из хранилища по имени
//   - context.go  — write-once контекст запуска
//   - resolver.go — разрешение @-ссылок в параметрах задач
//   - engine.go   — последовательный цикл выполнения и статусы run
//
// Движок — строго упорядоченный интерпретатор плоского списка задач:
// никакого параллелизма, ветвлений и повторов. Порядок объявления
// задач — единственный механизм зависимостей, а первая ошибка
// останавливает запуск.
package engine
