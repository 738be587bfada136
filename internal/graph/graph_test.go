package graph

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestGraph_AddNodeIdempotent(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.SetNodeAttr("a", "smiles", "CCO")
	g.AddNode("a")
	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}
	if g.NodeAttrs("a")["smiles"] != "CCO" {
		t.Fatal("expected attribute preserved on re-add")
	}
}

func TestGraph_Components(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	g.AddEdge("x", "y", nil)
	g.AddNode("lonely")

	components := g.Components()
	if len(components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(components))
	}
	sizes := map[int]bool{}
	for _, c := range components {
		sizes[len(c)] = true
	}
	if !sizes[3] || !sizes[2] || !sizes[1] {
		t.Fatalf("unexpected component sizes: %v", components)
	}
}

func TestGraph_FilterLargeComponents(t *testing.T) {
	g := New()
	// One chain of 150 nodes and one of 50.
	for i := 0; i < 149; i++ {
		g.AddEdge(fmt.Sprintf("big%d", i), fmt.Sprintf("big%d", i+1), nil)
	}
	for i := 0; i < 49; i++ {
		g.AddEdge(fmt.Sprintf("small%d", i), fmt.Sprintf("small%d", i+1), nil)
	}

	g.FilterLargeComponents(100)

	if g.NodeCount() != 50 {
		t.Fatalf("expected 50 nodes after filtering, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 49 {
		t.Fatalf("expected 49 edges after filtering, got %d", g.EdgeCount())
	}
	if g.HasNode("big0") {
		t.Fatal("expected giant component removed")
	}
	if !g.HasNode("small0") {
		t.Fatal("expected small component retained")
	}
}

func TestGraph_FilterKeepsEverythingUnderThreshold(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", nil)
	g.FilterLargeComponents(100)
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatal("expected graph untouched below threshold")
	}
}

func TestGraphML_RoundTrip(t *testing.T) {
	g := New()
	g.AddEdge("f1", "f2", Attrs{"cosine": "0.87"})
	g.SetNodeAttr("f1", "smiles", "CCO")
	g.SetNodeAttr("f2", "smiles", "N/A")
	g.AddNode("f3")
	g.SetNodeAttr("f3", "class", "Benzenoids")

	var buf bytes.Buffer
	if err := g.WriteGraphML(&buf); err != nil {
		t.Fatalf("writing graphml: %v", err)
	}

	parsed, err := ReadGraphML(&buf)
	if err != nil {
		t.Fatalf("reading graphml: %v", err)
	}
	if parsed.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", parsed.NodeCount())
	}
	if parsed.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", parsed.EdgeCount())
	}
	if parsed.NodeAttrs("f1")["smiles"] != "CCO" {
		t.Fatalf("unexpected node attrs: %v", parsed.NodeAttrs("f1"))
	}
	if parsed.Edges()[0].Attrs["cosine"] != "0.87" {
		t.Fatalf("unexpected edge attrs: %v", parsed.Edges()[0].Attrs)
	}
}

func TestGraphML_UndirectedDeclared(t *testing.T) {
	g := New()
	g.AddEdge("a", "b", nil)
	data, err := g.MarshalGraphML()
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	if !strings.Contains(string(data), `edgedefault="undirected"`) {
		t.Fatal("expected undirected edge default")
	}
}

func TestReadGraphML_Malformed(t *testing.T) {
	if _, err := ReadGraphML(strings.NewReader("not xml at all")); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
