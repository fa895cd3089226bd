// Package compose собирает исполняемые конвейеры из декларативных
// описаний (JSON/YAML) и реестра типов шагов.
package compose
