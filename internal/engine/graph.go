package engine

import (
	"fmt"
	"slices"
)

// NodeDecl — объявление узла графа зависимостей.
type NodeDecl struct {
	// Name — имя узла (ID шага).
	Name string

	// DependsOn — имена узлов, от которых зависит этот узел.
	DependsOn []string
}

// Graph — направленный ациклический граф зависимостей шагов.
//
// Graph строится один раз и после этого только читается:
// Merge и Subgraph возвращают новые независимые графы.
// Порядок объявления узлов сохраняется и используется как
// детерминированный tie-break во всех обходах — результат
// не зависит от порядка итерации по map.
type Graph struct {
	// nodes — имена узлов в порядке объявления.
	nodes []string

	// deps — имя узла → его зависимости (в порядке объявления,
	// без дубликатов).
	deps map[string][]string
}

// BuildGraph строит граф из объявлений узлов.
//
// Валидирует:
//   - непустые и уникальные имена узлов
//   - отсутствие зависимости узла от самого себя
//   - что каждая зависимость объявлена как узел
//   - отсутствие циклов
//
// Любая из этих ошибок фатальна: частично построенный граф
// не возвращается.
func BuildGraph(decls []NodeDecl) (*Graph, error) {
	g := &Graph{
		nodes: make([]string, 0, len(decls)),
		deps:  make(map[string][]string, len(decls)),
	}

	// Первый проход: регистрируем узлы
	for _, decl := range decls {
		if decl.Name == "" {
			return nil, NewValidationError("", "name", "node has empty name", ErrEmptyNodeName)
		}
		if _, exists := g.deps[decl.Name]; exists {
			return nil, NewValidationError(decl.Name, "name",
				fmt.Sprintf("duplicate node name: %s", decl.Name), ErrDuplicateNode)
		}
		g.nodes = append(g.nodes, decl.Name)
		g.deps[decl.Name] = nil
	}

	// Второй проход: привязываем зависимости
	for _, decl := range decls {
		for _, dep := range decl.DependsOn {
			if dep == decl.Name {
				return nil, NewValidationError(decl.Name, "depends_on",
					fmt.Sprintf("node %s depends on itself", decl.Name), ErrSelfDependency)
			}
			if _, known := g.deps[dep]; !known {
				return nil, NewValidationError(decl.Name, "depends_on",
					fmt.Sprintf("depends on unknown node: %s", dep), ErrUnknownDependency)
			}
			if slices.Contains(g.deps[decl.Name], dep) {
				continue // дубликат зависимости
			}
			g.deps[decl.Name] = append(g.deps[decl.Name], dep)
		}
	}

	// Проверка на циклы
	if _, err := g.TopologicalOrder(); err != nil {
		return nil, err
	}

	return g, nil
}

// TopologicalOrder возвращает полный порядок узлов, в котором каждый
// узел стоит после всех своих зависимостей. Среди узлов, готовых
// одновременно, первым идёт раньше объявленный.
//
// Возвращает ErrCyclicDependency с именем узла на цикле, если граф
// содержит цикл. Частичный порядок при этом не возвращается.
func (g *Graph) TopologicalOrder() ([]string, error) {
	placed := make(map[string]bool, len(g.nodes))
	order := make([]string, 0, len(g.nodes))

	for len(order) < len(g.nodes) {
		progressed := false
		for _, name := range g.nodes {
			if placed[name] {
				continue
			}
			if g.satisfied(name, placed) {
				order = append(order, name)
				placed[name] = true
				progressed = true
				break
			}
		}
		if !progressed {
			return nil, g.cycleError(placed)
		}
	}

	return order, nil
}

// LevelOrder возвращает узлы, сгруппированные по уровням параллелизма.
//
// Группа i содержит все узлы, чьи зависимости полностью покрыты
// группами 0..i-1. Узлам не обязательно иметь одинаковые зависимости,
// чтобы попасть в одну группу — достаточно, чтобы все их зависимости
// уже были размещены. Внутри группы узлы идут в порядке объявления.
//
// Если очередная итерация не размещает ни одного узла, а узлы ещё
// остались — граф содержит цикл.
func (g *Graph) LevelOrder() ([][]string, error) {
	placed := make(map[string]bool, len(g.nodes))
	levels := make([][]string, 0)
	remaining := len(g.nodes)

	for remaining > 0 {
		// Фронтир: все неразмещённые узлы с покрытыми зависимостями
		level := make([]string, 0)
		for _, name := range g.nodes {
			if placed[name] {
				continue
			}
			if g.satisfied(name, placed) {
				level = append(level, name)
			}
		}

		if len(level) == 0 {
			return nil, g.cycleError(placed)
		}

		// Размечаем фронтир только после полного сбора, иначе узлы
		// одного уровня начали бы "видеть" друг друга как размещённых.
		for _, name := range level {
			placed[name] = true
		}
		remaining -= len(level)
		levels = append(levels, level)
	}

	return levels, nil
}

// ReverseOrder возвращает точный реверс TopologicalOrder.
// Используется для teardown-сценариев.
func (g *Graph) ReverseOrder() ([]string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	slices.Reverse(order)
	return order, nil
}

// Subgraph возвращает новый граф, содержащий узел и транзитивное
// замыкание его зависимостей. Порядок объявления сохраняется.
func (g *Graph) Subgraph(name string) (*Graph, error) {
	if _, known := g.deps[name]; !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}

	// Собираем замыкание зависимостей
	closure := make(map[string]bool)
	stack := []string{name}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if closure[current] {
			continue
		}
		closure[current] = true
		stack = append(stack, g.deps[current]...)
	}

	sub := &Graph{
		nodes: make([]string, 0, len(closure)),
		deps:  make(map[string][]string, len(closure)),
	}
	for _, node := range g.nodes {
		if !closure[node] {
			continue
		}
		sub.nodes = append(sub.nodes, node)
		sub.deps[node] = slices.Clone(g.deps[node])
	}

	return sub, nil
}

// Merge возвращает новый граф — объединение рёбер обоих графов.
//
// Если оба графа объявляют зависимости одного узла, объединённый
// узел получает объединение обоих наборов (никогда не перезапись).
// Объединение двух ациклических графов может содержать цикл,
// поэтому результат валидируется заново.
func (g *Graph) Merge(other *Graph) (*Graph, error) {
	decls := make([]NodeDecl, 0, len(g.nodes)+len(other.nodes))
	seen := make(map[string]int, len(g.nodes))

	for _, node := range g.nodes {
		seen[node] = len(decls)
		decls = append(decls, NodeDecl{Name: node, DependsOn: slices.Clone(g.deps[node])})
	}
	for _, node := range other.nodes {
		if idx, exists := seen[node]; exists {
			// Объединяем наборы зависимостей; дубликаты отсеет BuildGraph
			decls[idx].DependsOn = append(decls[idx].DependsOn, other.deps[node]...)
			continue
		}
		decls = append(decls, NodeDecl{Name: node, DependsOn: slices.Clone(other.deps[node])})
	}

	return BuildGraph(decls)
}

// Nodes возвращает имена узлов в порядке объявления.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Dependencies возвращает зависимости узла.
func (g *Graph) Dependencies(name string) []string {
	return slices.Clone(g.deps[name])
}

// Edges возвращает копию всей карты рёбер (узел → зависимости).
func (g *Graph) Edges() map[string][]string {
	edges := make(map[string][]string, len(g.deps))
	for node, deps := range g.deps {
		edges[node] = slices.Clone(deps)
	}
	return edges
}

// Has проверяет, объявлен ли узел.
func (g *Graph) Has(name string) bool {
	_, known := g.deps[name]
	return known
}

// Size возвращает количество узлов.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// satisfied проверяет, что все зависимости узла размещены.
func (g *Graph) satisfied(name string, placed map[string]bool) bool {
	for _, dep := range g.deps[name] {
		if !placed[dep] {
			return false
		}
	}
	return true
}

// cycleError строит ошибку цикла, называя узел, лежащий на цикле.
//
// Среди неразмещённых узлов идём по первой неразмещённой зависимости,
// пока не вернёмся в уже посещённый узел — он гарантированно на цикле.
func (g *Graph) cycleError(placed map[string]bool) error {
	var start string
	for _, name := range g.nodes {
		if !placed[name] {
			start = name
			break
		}
	}

	visited := make(map[string]bool)
	current := start
	for !visited[current] {
		visited[current] = true
		for _, dep := range g.deps[current] {
			if !placed[dep] {
				current = dep
				break
			}
		}
	}

	return fmt.Errorf("%w: node %s is on a cycle", ErrCyclicDependency, current)
}
