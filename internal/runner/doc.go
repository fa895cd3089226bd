// Package runner выполняет конвейеры и фиксирует итог в истории,
// событиях и метриках.
package runner
