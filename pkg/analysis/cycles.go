package analysis

import (
	"sort"
	"strings"

	"github.com/janusai/graftnet/pkg/ledger"
)

// flowGraph is the directed official-to-vendor payment graph. A repeated
// (official, vendor) pair overwrites the stored amount, so each arc carries
// the most recent flow only, the behavior downstream reports are built on.
type flowGraph struct {
	order  []string                      // nodes in first-seen order
	out    map[string][]string           // adjacency, discovery order
	amount map[string]map[string]float64 // from -> to -> last amount
}

func buildFlowGraph(txns []ledger.Transaction) *flowGraph {
	fg := &flowGraph{
		out:    make(map[string][]string),
		amount: make(map[string]map[string]float64),
	}
	seen := make(map[string]bool)

	note := func(id string) {
		if !seen[id] {
			seen[id] = true
			fg.order = append(fg.order, id)
		}
	}

	for i := range txns {
		txn := &txns[i]
		note(txn.OfficialID)
		note(txn.VendorID)

		if fg.amount[txn.OfficialID] == nil {
			fg.amount[txn.OfficialID] = make(map[string]float64)
		}
		if _, dup := fg.amount[txn.OfficialID][txn.VendorID]; !dup {
			fg.out[txn.OfficialID] = append(fg.out[txn.OfficialID], txn.VendorID)
		}
		fg.amount[txn.OfficialID][txn.VendorID] = txn.Amount
	}

	return fg
}

// FlowCycles searches the directed payment graph for closed loops of at
// least opts.MinCycleLength nodes, using depth-first search with
// three-color marking: WHITE unvisited, GRAY in the recursion stack, BLACK
// finished. A GRAY neighbor marks a back edge and therefore a cycle.
//
// Every arc runs from the approving official to the paid vendor, so with
// the two id spaces disjoint no loop can close and the result is empty.
// The search still runs in full, covering any future flow kind that adds
// return arcs.
func FlowCycles(txns []ledger.Transaction, opts CycleOptions) []Cycle {
	if opts.MinCycleLength <= 0 {
		opts.MinCycleLength = DefaultMinCycleLength
	}

	fg := buildFlowGraph(txns)

	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(fg.order))
	parent := make(map[string]string, len(fg.order))
	cycles := make([]Cycle, 0)

	var visit func(node string)
	visit = func(node string) {
		color[node] = gray

		for _, next := range fg.out[node] {
			// Self-referencing arc: a one-node loop, below any threshold
			if next == node {
				if opts.MinCycleLength <= 1 {
					cycles = append(cycles, fg.report([]string{node}))
				}
				continue
			}

			switch color[next] {
			case white:
				parent[next] = node
				visit(next)
			case gray:
				// Back edge: reconstruct the loop from parent pointers
				loop := extractLoop(next, node, parent)
				if len(loop) >= opts.MinCycleLength {
					cycles = append(cycles, fg.report(loop))
				}
			}
		}

		color[node] = black
	}

	for _, node := range fg.order {
		if color[node] == white {
			visit(node)
		}
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		if cycles[i].RiskScore != cycles[j].RiskScore {
			return cycles[i].RiskScore > cycles[j].RiskScore
		}
		return cycles[i].CyclePath < cycles[j].CyclePath
	})

	return cycles
}

// extractLoop walks parent pointers from end back to start and returns the
// loop in traversal order [start, ..., end].
func extractLoop(start, end string, parent map[string]string) []string {
	loop := []string{end}
	current := end
	for current != start {
		p, ok := parent[current]
		if !ok {
			break
		}
		loop = append(loop, p)
		current = p
	}

	for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
		loop[i], loop[j] = loop[j], loop[i]
	}
	return loop
}

// report rolls a node loop up into a Cycle row, summing the flow along the
// loop including the closing arc.
func (fg *flowGraph) report(loop []string) Cycle {
	var flow float64
	for i := range loop {
		from := loop[i]
		to := loop[(i+1)%len(loop)]
		if amounts, ok := fg.amount[from]; ok {
			flow += amounts[to]
		}
	}

	return Cycle{
		CyclePath:   strings.Join(loop, " -> "),
		CycleLength: len(loop),
		TotalFlow:   flow,
		RiskScore:   clipRisk(len(loop) * cycleRiskPerHop),
	}
}
