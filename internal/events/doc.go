// Package events публикует события жизненного цикла запусков в RabbitMQ.
//
// Движок выполняет конвейеры in-memory и никому не делегирует работу;
// события нужны внешним системам (алёрты, дашборды, аудит), которые
// хотят знать о запусках, не опрашивая историю.
//
// Топология: обменник cascade.events (topic) с ключами run.started
// и run.finished, очередь cascade.run-events для потребителей.
package events
