// Package telemetry обеспечивает наблюдаемость Cascade.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики запусков и шагов
//
// CLI и scheduler используют единый формат логирования;
// scheduler дополнительно экспортирует метрики на /metrics endpoint.
package telemetry
