package accelctx

// countCycles reports how many strongly connected components of size
// greater than one exist among objs. It is the Go reimplementation of
// the teacher's C-codegen Tarjan template (pkg/memory/scc.go
// GenerateSCCDetection) as a real graph algorithm operating directly
// on Traceable objects instead of emitting C source that performs the
// same walk at runtime.
//
// Collect calls this on the garbage set so that a caller can tell a
// reference-cycle of garbage apart from a set of independently
// unreachable objects — both are swept, but only the former exercises
// spec §9's "the collector must tolerate cycles" requirement.
func countCycles(objs []Traceable) int {
	if len(objs) == 0 {
		return 0
	}

	index := make(map[Traceable]int, len(objs))
	lowlink := make(map[Traceable]int, len(objs))
	onStack := make(map[Traceable]bool, len(objs))
	visited := make(map[Traceable]bool, len(objs))

	known := make(map[Traceable]bool, len(objs))
	for _, o := range objs {
		known[o] = true
	}

	var stack []Traceable
	counter := 0
	cycles := 0

	var strongconnect func(v Traceable)
	strongconnect = func(v Traceable) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		visited[v] = true

		for _, w := range v.Trace() {
			if !known[w] {
				// outside the garbage set under consideration (e.g. a
				// live object); the cycle, if any, lies entirely within.
				continue
			}
			if !visited[w] {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			size := 0
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				size++
				if w == v {
					break
				}
			}
			if size > 1 {
				cycles++
			}
		}
	}

	for _, o := range objs {
		if !visited[o] {
			strongconnect(o)
		}
	}

	return cycles
}
