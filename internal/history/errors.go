package history

import "errors"

// Общие ошибки хранилища.
var (
	// ErrRunNotFound — run не найден в хранилище.
	ErrRunNotFound = errors.New("run not found")
)
