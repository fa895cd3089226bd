// Package history хранит историю запусков конвейеров.
//
// Выполнение конвейеров полностью in-memory; history фиксирует
// только итог каждого запуска (статус, ошибки финального результата,
// времена) для аудита и отладки.
//
// Две реализации Store:
//   - PostgresStore — PostgreSQL через pgxpool, для демона
//   - MemoryStore — in-memory, для тестов и CLI без БД
package history
