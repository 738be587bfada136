package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
)

// GraphML attribute domains.
const (
	domainNode = "node"
	domainEdge = "edge"
)

type xmlGraphML struct {
	XMLName xml.Name  `xml:"graphml"`
	Xmlns   string    `xml:"xmlns,attr"`
	Keys    []xmlKey  `xml:"key"`
	Graph   *xmlGraph `xml:"graph"`
}

type xmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type xmlGraph struct {
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML serializes the graph. All attribute values are strings,
// which is what downstream visualization tooling expects.
func (g *Graph) WriteGraphML(w io.Writer) error {
	nodeKeys := g.collectKeys(domainNode)
	edgeKeys := g.collectKeys(domainEdge)

	doc := xmlGraphML{
		Xmlns: "http://graphml.graphdrawing.org/xmlns",
		Graph: &xmlGraph{EdgeDefault: "undirected"},
	}
	nodeKeyIDs := make(map[string]string, len(nodeKeys))
	edgeKeyIDs := make(map[string]string, len(edgeKeys))
	seq := 0
	for _, name := range nodeKeys {
		id := fmt.Sprintf("d%d", seq)
		seq++
		nodeKeyIDs[name] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: domainNode, AttrName: name, AttrType: "string"})
	}
	for _, name := range edgeKeys {
		id := fmt.Sprintf("d%d", seq)
		seq++
		edgeKeyIDs[name] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: domainEdge, AttrName: name, AttrType: "string"})
	}

	for _, id := range g.nodeOrder {
		node := xmlNode{ID: id}
		attrs := g.nodes[id]
		for _, name := range nodeKeys {
			if v, ok := attrs[name]; ok {
				node.Data = append(node.Data, xmlData{Key: nodeKeyIDs[name], Value: v})
			}
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, node)
	}
	for _, e := range g.edges {
		edge := xmlEdge{Source: e.Source, Target: e.Target}
		for _, name := range edgeKeys {
			if v, ok := e.Attrs[name]; ok {
				edge.Data = append(edge.Data, xmlData{Key: edgeKeyIDs[name], Value: v})
			}
		}
		doc.Graph.Edges = append(doc.Graph.Edges, edge)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding graphml: %w", err)
	}
	return enc.Close()
}

// MarshalGraphML returns the GraphML serialization as bytes.
func (g *Graph) MarshalGraphML() ([]byte, error) {
	var buf writerBuffer
	if err := g.WriteGraphML(&buf); err != nil {
		return nil, err
	}
	return buf.data, nil
}

type writerBuffer struct {
	data []byte
}

func (b *writerBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// ReadGraphML parses a GraphML document into a graph. Attribute values are
// read as strings regardless of the declared attr.type.
func ReadGraphML(r io.Reader) (*Graph, error) {
	var doc xmlGraphML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding graphml: %w", err)
	}
	if doc.Graph == nil {
		return nil, fmt.Errorf("graphml document has no graph element")
	}

	keyNames := make(map[string]string, len(doc.Keys))
	for _, k := range doc.Keys {
		keyNames[k.ID] = k.AttrName
	}
	resolve := func(keyID string) string {
		if name, ok := keyNames[keyID]; ok && name != "" {
			return name
		}
		return keyID
	}

	g := New()
	for _, n := range doc.Graph.Nodes {
		g.AddNode(n.ID)
		for _, d := range n.Data {
			g.nodes[n.ID][resolve(d.Key)] = d.Value
		}
	}
	for _, e := range doc.Graph.Edges {
		attrs := make(Attrs, len(e.Data))
		for _, d := range e.Data {
			attrs[resolve(d.Key)] = d.Value
		}
		g.AddEdge(e.Source, e.Target, attrs)
	}
	return g, nil
}

// ReadGraphMLFile parses a GraphML file from disk.
func ReadGraphMLFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening graphml: %w", err)
	}
	defer f.Close()
	return ReadGraphML(f)
}

// collectKeys gathers the distinct attribute names for a domain, sorted.
func (g *Graph) collectKeys(domain string) []string {
	seen := make(map[string]bool)
	switch domain {
	case domainNode:
		for _, attrs := range g.nodes {
			for name := range attrs {
				seen[name] = true
			}
		}
	case domainEdge:
		for _, e := range g.edges {
			for name := range e.Attrs {
				seen[name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
