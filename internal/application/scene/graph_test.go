package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraph_NeighborsOf(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdges("b", "a", "c")

	assert.Equal(t, []string{"b"}, g.NeighborsOf("a"))
	assert.Equal(t, []string{"a", "c"}, g.NeighborsOf("b"))
	assert.Empty(t, g.NeighborsOf("c"), "edges are not mirrored")
	assert.Empty(t, g.NeighborsOf("missing"))
}

func TestGraph_KeepsDuplicates(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	assert.Equal(t, []string{"b", "b"}, g.NeighborsOf("a"))
}

func TestGraph_NeighborsOfReturnsCopy(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")

	n := g.NeighborsOf("a")
	n[0] = "mutated"
	assert.Equal(t, []string{"b"}, g.NeighborsOf("a"))
}

func TestGraph_Edges(t *testing.T) {
	g := NewGraph()
	g.AddEdges("b", "c", "a")
	g.AddEdge("a", "b")

	assert.Equal(t, []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "b", To: "a"},
	}, g.Edges())
}
