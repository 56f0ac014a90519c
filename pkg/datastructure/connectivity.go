package datastructure

// IsConnected reports whether every unblocked node is reachable from every
// other over non-blocked edges. iterative stack-based DFS from an arbitrary
// unblocked node; the graph is connected iff the reached set covers the whole
// unblocked node set. graphs with fewer than two unblocked nodes are
// trivially connected.
func (g *Graph) IsConnected(overlay *Overlay) bool {
	var root string
	unblocked := 0
	for _, id := range g.NodeIds() {
		if overlay.IsNodeBlocked(id) {
			continue
		}
		if unblocked == 0 {
			root = id
		}
		unblocked++
	}
	if unblocked <= 1 {
		return true
	}

	visited := make(map[string]bool, unblocked)
	stack := make([]string, 0, unblocked)
	stack = append(stack, root)
	visited[root] = true
	reached := 1

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		g.ForOutEdgesOf(u, overlay, func(e *Edge) {
			v := e.GetTo()
			if !visited[v] {
				visited[v] = true
				reached++
				stack = append(stack, v)
			}
		})
	}

	return reached == unblocked
}
