// Package render форматирует графы зависимостей для вывода в CLI.
package render
