package lod

import (
	"sort"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
)

// Candidate is one model's proposed quality for this frame.
type Candidate struct {
	Weight  float32
	Quality derivative.Quality
}

// Allocation is the outcome of fitting candidates into the budget.
type Allocation struct {
	// Qualities holds the final quality per candidate, in input order.
	Qualities []derivative.Quality
	// Total is the summed pixel cost of all final qualities.
	Total int64
	// Reserved is the baseline set aside before any tier was assigned.
	Reserved   int64
	Downgrades int
	// OverBudget is set when a model at the lowest tier still did not fit.
	OverBudget bool
}

// Allocate downgrades candidates until their summed texture cost fits the
// budget. Candidates are visited from least to most important. Every model
// not yet visited holds back the larger of its minimal reservation and its
// proposed cost; a visited model releases that hold and its tier is lowered
// while the running total plus its cost would not leave room for the rest.
// The least visible models thus give up detail first, and a set whose
// proposals already fit is left untouched.
//
// Qualities only go down here. An infeasible budget leaves the remaining
// models at the lowest tier and sets OverBudget.
func Allocate(candidates []Candidate, s Settings) Allocation {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return candidates[order[a]].Weight < candidates[order[b]].Weight
	})

	slot := int64(s.ReservedSlots) * s.Costs.Cost(derivative.Lowest)
	hold := func(q derivative.Quality) int64 {
		return max(slot, s.Costs.Cost(min(q, s.Ceiling)))
	}

	// held back for the models still to visit
	var pending int64
	for _, c := range candidates {
		pending += hold(c.Quality)
	}
	unvisited := int64(len(candidates))

	alloc := Allocation{
		Qualities: make([]derivative.Quality, len(candidates)),
		Reserved:  s.ShadowReserve + slot*unvisited,
	}

	for _, i := range order {
		q := min(candidates[i].Quality, s.Ceiling)
		pending -= hold(q)
		unvisited--

		available := s.Budget - s.ShadowReserve - pending
		for q > derivative.Lowest && alloc.Total+s.Costs.Cost(q) > available {
			q = q.Lower()
			alloc.Downgrades++
		}
		// the rest can still fall back to their minimal reservation
		limit := s.Budget - s.ShadowReserve - slot*unvisited
		if alloc.Total+s.Costs.Cost(q) > limit {
			alloc.OverBudget = true
		}

		alloc.Total += s.Costs.Cost(q)
		alloc.Qualities[i] = q
	}

	return alloc
}
