// Package cli реализует инструмент командной строки Cascade.
//
// # Обзор
//
// CLI работает напрямую с движком: читает файл конвейера, собирает
// его через compose и выполняет in-process. HTTP-сервера нет — вся
// работа происходит в одном процессе.
//
// # Команды
//
//   - run       запуск конвейера из файла (--input, --sequential, --save, --events)
//   - graph     вывод графа зависимостей (--format levels|topo|reverse|dot)
//   - validate  проверка файла без выполнения
//   - history   список прошлых запусков из БД истории
//
// # Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.Encoder с отступами) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: cascade history --json | jq .
//
// Каждая команда создаётся через фабричную функцию (NewRunCmd и т.д.),
// принимающую outputFn — замыкание для ленивого создания Output
// после парсинга PersistentFlags.
package cli
