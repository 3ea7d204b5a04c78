// Package telemetry обеспечивает наблюдаемость инструмента.
//
// Включает:
//   - logging.go — structured logging через slog
//
// Логи пишутся в stderr, чтобы не смешиваться с выводом
// клиентов и итоговой сводкой на stdout.
package telemetry
