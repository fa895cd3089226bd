package render

import (
	"fmt"
	"strings"

	"github.com/shaiso/Cascade/internal/engine"
)

// Levels возвращает текстовое представление уровней графа.
//
//	level 0: fetch
//	level 1: parse, enrich
//	level 2: store
func Levels(g *engine.Graph) (string, error) {
	levels, err := g.LevelOrder()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, level := range levels {
		fmt.Fprintf(&b, "level %d: %s\n", i, strings.Join(level, ", "))
	}
	return b.String(), nil
}

// Topo возвращает узлы в топологическом порядке, по одному на строку.
func Topo(g *engine.Graph) (string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return "", err
	}
	return strings.Join(order, "\n") + "\n", nil
}

// Reverse возвращает узлы в обратном топологическом порядке.
// Порядок для сценариев отката: зависимые раньше зависимостей.
func Reverse(g *engine.Graph) (string, error) {
	order, err := g.ReverseOrder()
	if err != nil {
		return "", err
	}
	return strings.Join(order, "\n") + "\n", nil
}

// DOT возвращает граф в формате Graphviz DOT.
// Рёбра направлены от зависимости к зависимому.
func DOT(g *engine.Graph) string {
	var b strings.Builder
	b.WriteString("digraph pipeline {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [shape=box];\n")

	// Порядок объявления, чтобы вывод был воспроизводим
	for _, name := range g.Nodes() {
		fmt.Fprintf(&b, "    %q;\n", name)
	}
	for _, name := range g.Nodes() {
		for _, dep := range g.Dependencies(name) {
			fmt.Fprintf(&b, "    %q -> %q;\n", dep, name)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
