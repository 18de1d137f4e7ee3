// SPDX-License-Identifier: Apache-2.0

package sequencer

import "sort"

// graph is a directed dependency graph: edges[d] contains every module that
// depends on d (d must initialize before them).
type graph struct {
	nodes []string
	edges map[string][]string // dependency -> dependents
	deps  map[string][]string // module -> its own dependencies
}

// buildGraph constructs the dependency graph from a node list and a
// dependency-lookup function. It returns a MissingDependencyError for the
// first node whose dependency is not itself a node, in node order.
func buildGraph(nodes []string, dependenciesOf func(name string) []string) (*graph, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	g := &graph{
		nodes: nodes,
		edges: make(map[string][]string, len(nodes)),
		deps:  make(map[string][]string, len(nodes)),
	}

	for _, n := range nodes {
		deps := dependenciesOf(n)
		g.deps[n] = deps
		for _, d := range deps {
			if !known[d] {
				return nil, &MissingDependencyError{Module: n, Dependency: d}
			}
			g.edges[d] = append(g.edges[d], n)
		}
	}

	return g, nil
}

// colour marks nodes visited during cycle detection.
type colour int

const (
	white colour = iota
	gray
	black
)

// detectCycle runs a three-colour DFS. It returns the first cycle found, in
// traversal order, or nil if the graph is acyclic.
func (g *graph) detectCycle() []string {
	colours := make(map[string]colour, len(g.nodes))
	var stack []string

	var visit func(n string) []string
	visit = func(n string) []string {
		colours[n] = gray
		stack = append(stack, n)

		for _, dep := range sortedCopy(g.deps[n]) {
			switch colours[dep] {
			case white:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			case gray:
				// Found the back edge n -> dep; extract the cycle portion of
				// the stack starting at dep.
				start := 0
				for i, v := range stack {
					if v == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, stack[start:]...), dep)
				return cycle
			}
		}

		colours[n] = black
		stack = stack[:len(stack)-1]
		return nil
	}

	sorted := sortedCopy(g.nodes)
	for _, n := range sorted {
		if colours[n] == white {
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// topoSort runs Kahn's algorithm with a lexicographically sorted frontier so
// that ties between simultaneously-ready nodes resolve deterministically.
func (g *graph) topoSort() []string {
	inDegree := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n] = 0
	}
	for _, n := range g.nodes {
		for range g.deps[n] {
			inDegree[n]++
		}
	}

	var frontier []string
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			frontier = append(frontier, n)
		}
	}
	sort.Strings(frontier)

	order := make([]string, 0, len(g.nodes))
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		order = append(order, next)

		var newlyReady []string
		for _, dependent := range sortedCopy(g.edges[next]) {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				newlyReady = append(newlyReady, dependent)
			}
		}
		if len(newlyReady) > 0 {
			frontier = append(frontier, newlyReady...)
			sort.Strings(frontier)
		}
	}

	return order
}

func sortedCopy(s []string) []string {
	out := append([]string{}, s...)
	sort.Strings(out)
	return out
}
