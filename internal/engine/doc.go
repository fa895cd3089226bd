// Package engine содержит граф зависимостей и разбор спецификаций.
//
// Включает:
//   - graph.go    — построение и обходы графа зависимостей
//     (топологический порядок, уровни параллелизма, подграф, объединение)
//   - parser.go   — разбор PipelineSpec из JSON и YAML
//   - template.go — рендеринг Go templates над контекстом Outcome
//
// Engine отвечает за понимание структуры конвейера и определение
// порядка выполнения шагов на основе их зависимостей. Выполнением
// занимается пакет pipeline.
package engine
