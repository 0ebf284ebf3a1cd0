// Package graph implements the module import graph used by Bootstrap. It
// provides cycle detection with path reconstruction and topological ordering
// so modules are wired dependencies-first.
package graph

import (
	"fmt"
	"sync"
)

// Graph is a directed graph keyed by node name. An edge from A to B means
// A depends on B (A imports B).
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]bool
	order []string // insertion order, keeps traversal deterministic
	edges map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		edges: make(map[string][]string),
	}
}

// AddNode adds a node if it does not already exist.
func (g *Graph) AddNode(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(name)
}

func (g *Graph) addNode(name string) {
	if !g.nodes[name] {
		g.nodes[name] = true
		g.order = append(g.order, name)
	}
}

// AddEdge records that from depends on to. Both nodes are created if needed.
// Duplicate edges are collapsed.
func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(from)
	g.addNode(to)

	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// HasNode checks whether a node exists.
func (g *Graph) HasNode(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nodes[name]
}

// Dependencies returns the direct dependencies of a node.
func (g *Graph) Dependencies(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps := make([]string, len(g.edges[name]))
	copy(deps, g.edges[name])
	return deps
}

// DetectCycles returns a CycleError if the graph contains a cycle, nil
// otherwise. The error path lists the nodes along the first cycle found.
func (g *Graph) DetectCycles() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool, len(g.nodes))
	visiting := make(map[string]bool, len(g.nodes))

	var stack []string

	var visit func(node string) error
	visit = func(node string) error {
		if visiting[node] {
			return &CycleError{Path: cyclePath(stack, node)}
		}
		if visited[node] {
			return nil
		}

		visiting[node] = true
		stack = append(stack, node)

		for _, dep := range g.edges[node] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		visiting[node] = false
		visited[node] = true
		return nil
	}

	for _, node := range g.order {
		if err := visit(node); err != nil {
			return err
		}
	}

	return nil
}

// cyclePath slices the DFS stack from the first occurrence of node and closes
// the loop, e.g. [a b c] + b -> [b c b].
func cyclePath(stack []string, node string) []string {
	start := 0
	for i, n := range stack {
		if n == node {
			start = i
			break
		}
	}

	path := make([]string, 0, len(stack)-start+1)
	path = append(path, stack[start:]...)
	path = append(path, node)
	return path
}

// TopologicalSort returns the nodes ordered dependencies-first, so every node
// appears after all nodes it depends on. Returns a CycleError if the graph is
// cyclic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	// Kahn's algorithm over remaining-dependency counts. dependents is the
	// reverse adjacency used to release importers as their imports resolve.
	remaining := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, node := range g.order {
		remaining[node] = len(g.edges[node])
		for _, dep := range g.edges[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.order {
		if remaining[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, dependent := range dependents[current] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("topological sort incomplete: %d of %d nodes sorted", len(result), len(g.nodes))
	}

	return result, nil
}
