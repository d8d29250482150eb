package transform

import (
	"fmt"
	"sort"

	"github.com/docbridge/docbridge/docerrors"
)

// ResolveDependencies produces one total execution order for the requested
// transforms and their transitive dependency closure.
//
// A dependency always precedes its dependents. Among transforms with no
// ordering constraint between them, ascending priority runs first, with
// registration order as the stable secondary key, so the result is
// deterministic and reproducible. A missing dependency fails before any
// ordering work; a cycle fails with an error identifying its members.
func (r *Registry) ResolveDependencies(requested []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Build the induced subgraph: requested names plus the transitive
	// closure of their dependencies. Missing names fail here, before any
	// ordering work begins.
	closure := make(map[string]*entry)
	queue := make([]string, 0, len(requested))
	for _, name := range requested {
		e, ok := r.entries[name]
		if !ok {
			return nil, &docerrors.DependencyResolutionError{
				Transform: name,
				Message:   fmt.Sprintf("transform %q is not registered", name),
			}
		}
		if _, seen := closure[name]; !seen {
			closure[name] = e
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, dep := range closure[name].meta.Dependencies {
			if _, seen := closure[dep]; seen {
				continue
			}
			e, ok := r.entries[dep]
			if !ok {
				return nil, &docerrors.DependencyResolutionError{
					Transform: name,
					Missing:   dep,
				}
			}
			closure[dep] = e
			queue = append(queue, dep)
		}
	}

	// Kahn's algorithm with a sorted ready set.
	indegree := make(map[string]int, len(closure))
	dependents := make(map[string][]string, len(closure))
	for name, e := range closure {
		indegree[name] += 0
		for _, dep := range e.meta.Dependencies {
			dependents[dep] = append(dependents[dep], name)
			indegree[name]++
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(closure))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			a, b := closure[ready[i]], closure[ready[j]]
			if a.meta.Priority != b.meta.Priority {
				return a.meta.Priority < b.meta.Priority
			}
			return a.seq < b.seq
		})
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) < len(closure) {
		remaining := make(map[string]bool)
		for name := range closure {
			remaining[name] = true
		}
		for _, name := range order {
			delete(remaining, name)
		}
		return nil, &docerrors.DependencyResolutionError{
			Cycle: findCycle(remaining, closure),
		}
	}
	return order, nil
}

// findCycle locates one cycle among the nodes Kahn's algorithm could not
// order. Every remaining node lies on or leads into a cycle, so a DFS from
// any of them revisits its own stack.
func findCycle(remaining map[string]bool, closure map[string]*entry) []string {
	// Deterministic starting point.
	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)

	onStack := make(map[string]int)
	var stack []string

	var dfs func(name string) []string
	dfs = func(name string) []string {
		if pos, ok := onStack[name]; ok {
			cycle := append([]string{}, stack[pos:]...)
			return append(cycle, name)
		}
		onStack[name] = len(stack)
		stack = append(stack, name)
		for _, dep := range closure[name].meta.Dependencies {
			if !remaining[dep] {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}
		delete(onStack, name)
		stack = stack[:len(stack)-1]
		return nil
	}

	for _, name := range names {
		if cycle := dfs(name); cycle != nil {
			return cycle
		}
	}
	return names
}
