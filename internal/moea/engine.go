// Package moea implements a self-contained multi-objective evolutionary
// engine (NSGA-II style): non-dominated sorting, crowding-distance
// truncation and a generational loop, generic over the genome type. All
// state is per-run; randomness comes from an explicit seed.
package moea

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// Vector holds the objective values of one individual. All objectives are
// minimized.
type Vector []float64

// Dominates reports whether v weakly dominates o: no objective worse and at
// least one strictly better.
func (v Vector) Dominates(o Vector) bool {
	better := false
	for i := range v {
		if v[i] > o[i] {
			return false
		}
		if v[i] < o[i] {
			better = true
		}
	}
	return better
}

// Less is lexicographic comparison, used by the parent tournament.
func (v Vector) Less(o Vector) bool {
	for i := range v {
		if v[i] != o[i] {
			return v[i] < o[i]
		}
	}
	return false
}

// Individual pairs a genome with its (possibly stale) objective vector.
type Individual[G any] struct {
	Genome     G
	Objectives Vector

	evaluated bool
	rank      int
	crowding  float64
}

// Config wires the problem-specific pieces into the engine. Operators
// mutate genomes in place; Clone must produce a fully independent copy.
type Config[G any] struct {
	PopulationSize int // rounded up to the next multiple of 4
	Generations    int
	CrossoverProb  float64 // per adjacent parent pair, default 0.8
	MutationProb   float64 // per offspring, default 0.2
	Workers        int     // parallel evaluation fan-out, <=1 means sequential

	NewGenome func(rng *rand.Rand) G
	Clone     func(G) G
	Evaluate  func(G) Vector
	Crossover func(a, b G, rng *rand.Rand)
	Mutate    func(g G, rng *rand.Rand)

	// OnGeneration, when set, observes per-generation statistics.
	OnGeneration func(GenerationStats)
}

// GenerationStats is the per-generation observability record.
type GenerationStats struct {
	Generation int       `json:"gen"`
	Min        []float64 `json:"min"`
	Avg        []float64 `json:"avg"`
}

// Result is the terminal state of a run.
type Result[G any] struct {
	Population []Individual[G]
	Front      []Individual[G] // first non-dominated front of the final population
	Stats      []GenerationStats
}

// Run executes the generational loop. Cancellation is honored between
// generations; mid-generation work is never interrupted.
func Run[G any](ctx context.Context, cfg Config[G], seed int64) (Result[G], error) {
	if cfg.NewGenome == nil || cfg.Clone == nil || cfg.Evaluate == nil || cfg.Crossover == nil || cfg.Mutate == nil {
		return Result[G]{}, fmt.Errorf("moea: incomplete config")
	}
	if cfg.PopulationSize <= 0 {
		return Result[G]{}, fmt.Errorf("moea: population size must be > 0")
	}
	if cfg.Generations < 0 {
		return Result[G]{}, fmt.Errorf("moea: generations must be >= 0")
	}
	// Crowded truncation pairs individuals off in fours.
	n := (cfg.PopulationSize + 3) / 4 * 4
	if cfg.CrossoverProb <= 0 {
		cfg.CrossoverProb = 0.8
	}
	if cfg.MutationProb <= 0 {
		cfg.MutationProb = 0.2
	}

	rng := rand.New(rand.NewSource(seed))

	pop := make([]Individual[G], n)
	for i := range pop {
		pop[i] = Individual[G]{Genome: cfg.NewGenome(rng)}
	}
	evaluateAll(pop, cfg.Evaluate, cfg.Workers)

	res := Result[G]{}
	for gen := 0; gen < cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// Breeding pool: binary tournament on raw objective vectors.
		offspring := make([]Individual[G], n)
		for i := range offspring {
			offspring[i] = cloneIndividual(tournament(pop, rng), cfg.Clone)
		}

		for i := 0; i+1 < n; i += 2 {
			if rng.Float64() < cfg.CrossoverProb {
				cfg.Crossover(offspring[i].Genome, offspring[i+1].Genome, rng)
				offspring[i].evaluated = false
				offspring[i+1].evaluated = false
			}
		}
		for i := range offspring {
			if rng.Float64() < cfg.MutationProb {
				cfg.Mutate(offspring[i].Genome, rng)
				offspring[i].evaluated = false
			}
		}
		evaluateAll(offspring, cfg.Evaluate, cfg.Workers)

		pop = selectNSGA2(append(pop, offspring...), n)

		stats := computeStats(gen, pop)
		res.Stats = append(res.Stats, stats)
		if cfg.OnGeneration != nil {
			cfg.OnGeneration(stats)
		}
	}

	res.Population = pop
	fronts := fastNonDominatedSort(pop)
	if len(fronts) > 0 {
		for _, idx := range fronts[0] {
			res.Front = append(res.Front, pop[idx])
		}
	}
	return res, nil
}

func cloneIndividual[G any](ind Individual[G], clone func(G) G) Individual[G] {
	return Individual[G]{
		Genome:     clone(ind.Genome),
		Objectives: append(Vector(nil), ind.Objectives...),
		evaluated:  ind.evaluated,
	}
}

func tournament[G any](pop []Individual[G], rng *rand.Rand) Individual[G] {
	a := pop[rng.Intn(len(pop))]
	b := pop[rng.Intn(len(pop))]
	if b.Objectives.Less(a.Objectives) {
		return b
	}
	return a
}

// evaluateAll fills stale objective vectors. Evaluation is a pure function
// of the genome, so fanning out over workers yields results identical to a
// sequential pass.
func evaluateAll[G any](pop []Individual[G], eval func(G) Vector, workers int) {
	var stale []int
	for i := range pop {
		if !pop[i].evaluated {
			stale = append(stale, i)
		}
	}
	if len(stale) == 0 {
		return
	}
	if workers <= 1 || len(stale) < 2 {
		for _, i := range stale {
			pop[i].Objectives = eval(pop[i].Genome)
			pop[i].evaluated = true
		}
		return
	}
	if workers > len(stale) {
		workers = len(stale)
	}
	var wg sync.WaitGroup
	chunk := (len(stale) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(stale) {
			hi = len(stale)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(idxs []int) {
			defer wg.Done()
			for _, i := range idxs {
				pop[i].Objectives = eval(pop[i].Genome)
				pop[i].evaluated = true
			}
		}(stale[lo:hi])
	}
	wg.Wait()
}

func computeStats[G any](gen int, pop []Individual[G]) GenerationStats {
	if len(pop) == 0 || len(pop[0].Objectives) == 0 {
		return GenerationStats{Generation: gen}
	}
	nObj := len(pop[0].Objectives)
	min := make([]float64, nObj)
	sum := make([]float64, nObj)
	copy(min, pop[0].Objectives)
	for _, ind := range pop {
		for k, v := range ind.Objectives {
			if v < min[k] {
				min[k] = v
			}
			sum[k] += v
		}
	}
	avg := make([]float64, nObj)
	for k := range sum {
		avg[k] = sum[k] / float64(len(pop))
	}
	return GenerationStats{Generation: gen, Min: min, Avg: avg}
}
