package pref

// Reachable reports whether to can be reached from from by following
// chosen → rejected edges in prefs. An item always reaches itself.
//
// The search is breadth-first and runs in O(V + E). A nil prefs is an empty
// graph.
func Reachable(prefs []Decision, from, to string) bool {
	if from == to {
		return true
	}
	adj := make(map[string][]string)
	for _, d := range prefs {
		adj[d.Chosen] = append(adj[d.Chosen], d.Rejected)
	}

	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// WouldCycle reports whether adding chosen > rejected to prefs would close a
// directed cycle, i.e. whether rejected already reaches chosen.
func WouldCycle(prefs []Decision, chosen, rejected string) bool {
	return Reachable(prefs, rejected, chosen)
}

// HasCycle reports whether the preference graph contains a directed cycle.
//
// Detection uses depth-first search with white/gray/black colouring: an edge
// into a gray item closes a cycle. A nil prefs has no cycle.
func HasCycle(prefs []Decision) bool {
	const (
		white = iota
		gray
		black
	)

	ix := newIndex(prefs)
	outgoing := make([][]int, len(ix.items))
	for _, d := range prefs {
		from := ix.pos[d.Chosen]
		outgoing[from] = append(outgoing[from], ix.pos[d.Rejected])
	}

	color := make([]int, len(ix.items))
	var hasCycle bool

	var dfs func(i int)
	dfs = func(i int) {
		color[i] = gray
		for _, next := range outgoing[i] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[i] = black
	}

	for i := range ix.items {
		if color[i] == white {
			dfs(i)
			if hasCycle {
				return true
			}
		}
	}
	return false
}
