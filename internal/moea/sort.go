package moea

import (
	"math"
	"sort"
)

// fastNonDominatedSort partitions the population into dominance fronts and
// records each individual's front rank. Front 0 is mutually non-dominated.
func fastNonDominatedSort[G any](pop []Individual[G]) [][]int {
	n := len(pop)
	dominated := make([][]int, n) // i -> indices i dominates
	domCount := make([]int, n)    // how many dominate i

	var fronts [][]int
	var first []int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case pop[i].Objectives.Dominates(pop[j].Objectives):
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			case pop[j].Objectives.Dominates(pop[i].Objectives):
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}
	for i := 0; i < n; i++ {
		if domCount[i] == 0 {
			pop[i].rank = 0
			first = append(first, i)
		}
	}
	fronts = append(fronts, first)
	for len(fronts[len(fronts)-1]) > 0 {
		var next []int
		for _, i := range fronts[len(fronts)-1] {
			for _, j := range dominated[i] {
				domCount[j]--
				if domCount[j] == 0 {
					pop[j].rank = len(fronts)
					next = append(next, j)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		fronts = append(fronts, next)
	}
	return fronts
}

// crowdingDistance assigns objective-space density to one front. Boundary
// points get infinite distance so they always survive truncation.
func crowdingDistance[G any](pop []Individual[G], front []int) {
	m := len(front)
	if m == 0 {
		return
	}
	for _, i := range front {
		pop[i].crowding = 0
	}
	nObj := len(pop[front[0]].Objectives)
	idx := append([]int(nil), front...)
	for k := 0; k < nObj; k++ {
		sort.SliceStable(idx, func(a, b int) bool {
			return pop[idx[a]].Objectives[k] < pop[idx[b]].Objectives[k]
		})
		lo := pop[idx[0]].Objectives[k]
		hi := pop[idx[m-1]].Objectives[k]
		pop[idx[0]].crowding = math.Inf(1)
		pop[idx[m-1]].crowding = math.Inf(1)
		if hi == lo {
			continue
		}
		for a := 1; a < m-1; a++ {
			pop[idx[a]].crowding += (pop[idx[a+1]].Objectives[k] - pop[idx[a-1]].Objectives[k]) / (hi - lo)
		}
	}
}

// selectNSGA2 truncates a merged parent+offspring population to size n by
// front rank, breaking ties within the last partial front by crowding
// distance (sparser first).
func selectNSGA2[G any](merged []Individual[G], n int) []Individual[G] {
	fronts := fastNonDominatedSort(merged)
	out := make([]Individual[G], 0, n)
	for _, front := range fronts {
		crowdingDistance(merged, front)
		if len(out)+len(front) <= n {
			for _, i := range front {
				out = append(out, merged[i])
			}
			continue
		}
		rest := append([]int(nil), front...)
		sort.SliceStable(rest, func(a, b int) bool {
			return merged[rest[a]].crowding > merged[rest[b]].crowding
		})
		for _, i := range rest {
			if len(out) == n {
				break
			}
			out = append(out, merged[i])
		}
		break
	}
	return out
}
