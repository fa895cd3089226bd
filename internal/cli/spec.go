package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/shaiso/Cascade/internal/engine"
)

// loadSpec читает и парсит файл конвейера.
func loadSpec(path string) (*engine.PipelineSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	spec, err := engine.ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return spec, nil
}

// parseInputs разбирает флаги --input KEY=VALUE поверх входов
// по умолчанию из спецификации.
func parseInputs(spec *engine.PipelineSpec, flags []string) (map[string]any, error) {
	inputs := make(map[string]any, len(spec.Inputs)+len(flags))
	for key, value := range spec.Inputs {
		inputs[key] = value
	}

	for _, kv := range flags {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid input format %q, expected KEY=VALUE", kv)
		}
		inputs[parts[0]] = parts[1]
	}
	return inputs, nil
}
