package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/shaiso/Cascade/internal/domain"
)

// TemplateData — данные, доступные в Go templates шагов.
//
// Используется для доступа к текущему Outcome:
//   - {{ .Value }}
//   - {{ .Context.key }}
//   - {{ .Errors.category }}
type TemplateData struct {
	// Value — значение текущего Outcome.
	Value any

	// Context — контекст текущего Outcome.
	Context map[string]any

	// Errors — накопленные ошибки текущего Outcome.
	Errors map[string][]string
}

// templateFuncs — дополнительные функции для шаблонов.
var templateFuncs = template.FuncMap{
	// json — сериализует значение в JSON строку
	"json": func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return string(b)
	},

	// default — возвращает значение по умолчанию, если аргумент пустой
	"default": func(def, val any) any {
		if val == nil {
			return def
		}
		if s, ok := val.(string); ok && s == "" {
			return def
		}
		return val
	},

	// join — объединяет слайс строк
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},
}

// RenderTemplate рендерит шаблон над контекстом Outcome.
//
// Отсутствующий ключ контекста — ошибка рендеринга (missingkey=error),
// чтобы опечатки в шаблонах не превращались молча в "<no value>".
func RenderTemplate(tmpl string, o *domain.Outcome) (string, error) {
	parsed, err := template.New("step").
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	data := TemplateData{
		Value:   o.Value(),
		Context: o.Context(),
		Errors:  o.Errors(),
	}

	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}
