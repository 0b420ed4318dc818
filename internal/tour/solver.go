// Package tour orders multi-stop delivery tours with a genetic algorithm
// over a precomputed distance matrix.
package tour

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// DistanceFunc resolves the distance in kilometers between two named stops.
type DistanceFunc func(a, b string) (float64, error)

// Config tunes one solver run. Zero values take the defaults.
type Config struct {
	PopulationSize int     // default 80
	Generations    int     // default 200
	MutationRate   float64 // default 0.15, per-individual swap probability
	EliteSize      int     // default 4
	Seed           int64   // default 42
}

func (c Config) withDefaults() Config {
	if c.PopulationSize <= 0 {
		c.PopulationSize = 80
	}
	if c.Generations <= 0 {
		c.Generations = 200
	}
	if c.MutationRate <= 0 {
		c.MutationRate = 0.15
	}
	if c.EliteSize <= 0 {
		c.EliteSize = 4
	}
	if c.EliteSize > c.PopulationSize {
		c.EliteSize = c.PopulationSize
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	return c
}

// Leg is one hop of the final route.
type Leg struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distanceKm"`
}

// Result is an ordered tour with its savings over the caller's ordering.
type Result struct {
	Route              []string `json:"route"`
	TotalDistanceKm    float64  `json:"totalDistanceKm"`
	OriginalDistanceKm float64  `json:"originalDistanceKm"`
	ImprovementPercent float64  `json:"improvementPercent"`
	Legs               []Leg    `json:"legs"`
	ReturnToDepot      bool     `json:"returnToDepot"`
	ComputationMs      int64    `json:"computationMs"`
}

const tournamentSize = 3

// Solve reorders stops to minimize total tour distance. The start is pinned:
// the depot when given, otherwise the first stop. When returnToDepot is set
// the tour closes back on the start. Stops given in the caller's order serve
// as the baseline, and the result never does worse than that baseline.
func Solve(ctx context.Context, depot string, stops []string, returnToDepot bool, dist DistanceFunc, cfg Config) (Result, error) {
	if depot == "" {
		if len(stops) == 0 {
			return Result{}, fmt.Errorf("at least one stop is required")
		}
		depot = stops[0]
	}
	cfg = cfg.withDefaults()
	start := time.Now()

	// Drop duplicates and any stop equal to the depot.
	seen := map[string]bool{depot: true}
	var unique []string
	for _, s := range stops {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}

	names := append([]string{depot}, unique...)
	matrix, err := buildMatrix(names, dist)
	if err != nil {
		return Result{}, err
	}

	n := len(unique)
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i + 1 // matrix index; 0 is the depot
	}
	original := tourDistance(matrix, identity, returnToDepot)

	best := identity
	if n > 2 {
		best = evolve(ctx, matrix, identity, returnToDepot, cfg)
	}
	total := tourDistance(matrix, best, returnToDepot)

	res := Result{
		Route:              []string{depot},
		TotalDistanceKm:    round1(total),
		OriginalDistanceKm: round1(original),
		ReturnToDepot:      returnToDepot,
		ComputationMs:      time.Since(start).Milliseconds(),
	}
	if original > 0 {
		res.ImprovementPercent = round1((original - total) / original * 100)
	}
	for _, idx := range best {
		res.Route = append(res.Route, names[idx])
	}
	if returnToDepot {
		res.Route = append(res.Route, depot)
	}
	for i := 1; i < len(res.Route); i++ {
		from, to := res.Route[i-1], res.Route[i]
		d, err := dist(from, to)
		if err != nil {
			return Result{}, err
		}
		res.Legs = append(res.Legs, Leg{From: from, To: to, DistanceKm: round1(d)})
	}
	return res, nil
}

func buildMatrix(names []string, dist DistanceFunc) ([][]float64, error) {
	n := len(names)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i == j {
				continue
			}
			d, err := dist(names[i], names[j])
			if err != nil {
				return nil, err
			}
			m[i][j] = d
		}
	}
	return m, nil
}

// tourDistance sums depot -> stops -> (depot) over matrix indices.
func tourDistance(matrix [][]float64, order []int, closed bool) float64 {
	total := 0.0
	prev := 0
	for _, idx := range order {
		total += matrix[prev][idx]
		prev = idx
	}
	if closed && len(order) > 0 {
		total += matrix[prev][0]
	}
	return total
}

// evolve runs the GA over stop orderings. The caller's ordering seeds the
// population, so elitism guarantees the result is never worse than it.
func evolve(ctx context.Context, matrix [][]float64, identity []int, closed bool, cfg Config) []int {
	rng := rand.New(rand.NewSource(cfg.Seed))
	n := len(identity)

	pop := make([][]int, cfg.PopulationSize)
	pop[0] = append([]int(nil), identity...)
	for i := 1; i < cfg.PopulationSize; i++ {
		perm := append([]int(nil), identity...)
		rng.Shuffle(n, func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		pop[i] = perm
	}

	bestEver := pop[0]
	bestDist := tourDistance(matrix, bestEver, closed)

	for gen := 0; gen < cfg.Generations; gen++ {
		if ctx.Err() != nil {
			break
		}

		sort.SliceStable(pop, func(a, b int) bool {
			return tourDistance(matrix, pop[a], closed) < tourDistance(matrix, pop[b], closed)
		})
		if d := tourDistance(matrix, pop[0], closed); d < bestDist {
			bestDist = d
			bestEver = append([]int(nil), pop[0]...)
		}

		next := make([][]int, 0, cfg.PopulationSize)
		for i := 0; i < cfg.EliteSize; i++ {
			next = append(next, append([]int(nil), pop[i]...))
		}
		for len(next) < cfg.PopulationSize {
			a := selectParent(matrix, pop, closed, rng)
			b := selectParent(matrix, pop, closed, rng)
			child := orderCrossover(a, b, rng)
			if rng.Float64() < cfg.MutationRate {
				swapMutate(child, rng)
			}
			next = append(next, child)
		}
		pop = next
	}

	sort.SliceStable(pop, func(a, b int) bool {
		return tourDistance(matrix, pop[a], closed) < tourDistance(matrix, pop[b], closed)
	})
	if d := tourDistance(matrix, pop[0], closed); d < bestDist {
		bestEver = pop[0]
	}
	return bestEver
}

func selectParent(matrix [][]float64, pop [][]int, closed bool, rng *rand.Rand) []int {
	best := pop[rng.Intn(len(pop))]
	bestDist := tourDistance(matrix, best, closed)
	for i := 1; i < tournamentSize; i++ {
		cand := pop[rng.Intn(len(pop))]
		if d := tourDistance(matrix, cand, closed); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

// orderCrossover copies a random window of parent a, then fills the free
// slots with parent b's stops.
func orderCrossover(a, b []int, rng *rand.Rand) []int {
	n := len(a)
	i := rng.Intn(n)
	j := rng.Intn(n)
	if i > j {
		i, j = j, i
	}
	return orderCrossoverAt(a, b, i, j)
}

// orderCrossoverAt keeps a[i..j] in place, then fills forward from just past
// the window, reading parent b from the same point. Both scans wrap.
func orderCrossoverAt(a, b []int, i, j int) []int {
	n := len(a)
	child := make([]int, n)
	used := make(map[int]bool, j-i+1)
	for k := i; k <= j; k++ {
		child[k] = a[k]
		used[a[k]] = true
	}
	pos := (j + 1) % n
	for k := 0; k < n; k++ {
		stop := b[(j+1+k)%n]
		if used[stop] {
			continue
		}
		child[pos] = stop
		pos = (pos + 1) % n
	}
	return child
}

func swapMutate(order []int, rng *rand.Rand) {
	n := len(order)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	order[i], order[j] = order[j], order[i]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
