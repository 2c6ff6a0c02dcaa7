// Package mq — событийная шина поверх RabbitMQ.
//
// Включает:
//   - connection.go — соединение с автоматическим reconnect
//   - publisher.go  — публикация событий жизненного цикла run
//
// События публикуются best-effort: отказ шины логируется
// и никогда не останавливает выполнение flow.
package mq
