package compiler

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// checkReferenceCycles rejects named queries that reference each other in a
// loop. A cycle would expand into an infinitely nested subquery.
//
// The algorithm:
//  1. Build a query → referenced queries graph from {ref: name} arguments
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report the first SCC with size > 1, or a self-loop, as an error
//
// References to unknown names are left for conversion to report.
func checkReferenceCycles(named map[string]*node) error {
	graph := buildReferenceGraph(named)

	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			path := reconstructCyclePath(scc, graph)
			return &LoadError{
				Code:    ErrReferenceCycle,
				Field:   "queries." + path[0],
				Message: fmt.Sprintf("reference cycle: %s", strings.Join(path, " → ")),
				Pos:     named[path[0]].pos,
			}
		}
	}
	return nil
}

// referenceGraph maps query name → names it references.
type referenceGraph map[string][]string

func buildReferenceGraph(named map[string]*node) referenceGraph {
	graph := make(referenceGraph, len(named))
	for name, body := range named {
		// Ensure every query exists as a node, even without edges.
		graph[name] = []string{}
		collectRefs(body, func(ref string) {
			if _, ok := named[ref]; ok {
				graph[name] = append(graph[name], ref)
			}
		})
	}
	return graph
}

// collectRefs walks a node tree and reports every {ref: name} it finds.
func collectRefs(n *node, visit func(string)) {
	switch n.kind {
	case listNode:
		for _, item := range n.items {
			collectRefs(item, visit)
		}
	case mapNode:
		if ref, ok := n.get("ref"); ok {
			if name, ok := scalarString(ref); ok {
				visit(name)
			}
		}
		for _, f := range n.fields {
			collectRefs(f.value, visit)
		}
	}
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(name string, graph referenceGraph) bool {
	return slices.Contains(graph[name], name)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in sorted order so the reported cycle is stable.
func tarjanSCC(graph referenceGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack into an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(graph)) {
		if _, visited := indices[name]; !visited {
			strongConnect(name)
		}
	}

	return sccs
}

// reconstructCyclePath builds a readable path through an SCC, starting and
// ending at its alphabetically first member.
func reconstructCyclePath(scc []string, graph referenceGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, name := range scc {
		members[name] = true
	}

	start := slices.Min(scc)
	if len(scc) == 1 {
		return []string{start, start}
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}
	return path
}
