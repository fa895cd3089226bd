package render

import (
	"strings"
	"testing"

	"github.com/shaiso/Cascade/internal/engine"
)

func diamond(t *testing.T) *engine.Graph {
	t.Helper()
	g, err := engine.BuildGraph([]engine.NodeDecl{
		{Name: "a"},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "c", DependsOn: []string{"a"}},
		{Name: "d", DependsOn: []string{"b", "c"}},
	})
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	return g
}

func TestLevels(t *testing.T) {
	got, err := Levels(diamond(t))
	if err != nil {
		t.Fatalf("Levels() error = %v", err)
	}

	want := "level 0: a\nlevel 1: b, c\nlevel 2: d\n"
	if got != want {
		t.Errorf("Levels() = %q, want %q", got, want)
	}
}

func TestTopo(t *testing.T) {
	got, err := Topo(diamond(t))
	if err != nil {
		t.Fatalf("Topo() error = %v", err)
	}

	if got != "a\nb\nc\nd\n" {
		t.Errorf("Topo() = %q, want a b c d", got)
	}
}

func TestReverse(t *testing.T) {
	got, err := Reverse(diamond(t))
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}

	if got != "d\nc\nb\na\n" {
		t.Errorf("Reverse() = %q, want d c b a", got)
	}
}

func TestDOT(t *testing.T) {
	got := DOT(diamond(t))

	if !strings.HasPrefix(got, "digraph pipeline {") {
		t.Errorf("DOT() missing header: %q", got)
	}
	for _, fragment := range []string{`"a";`, `"a" -> "b";`, `"b" -> "d";`, `"c" -> "d";`} {
		if !strings.Contains(got, fragment) {
			t.Errorf("DOT() missing %q in:\n%s", fragment, got)
		}
	}
}
