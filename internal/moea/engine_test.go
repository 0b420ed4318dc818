package moea

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// testGenome is a two-variable genome with conflicting objectives:
// f1 = x^2 + y^2, f2 = (x-2)^2 + y^2. The Pareto set is y=0, x in [0,2].
type testGenome struct {
	x, y float64
}

func testConfig(workers int, onGen func(GenerationStats)) Config[*testGenome] {
	return Config[*testGenome]{
		PopulationSize: 40,
		Generations:    25,
		Workers:        workers,
		NewGenome: func(rng *rand.Rand) *testGenome {
			return &testGenome{x: rng.Float64()*6 - 2, y: rng.Float64()*6 - 2}
		},
		Clone: func(g *testGenome) *testGenome {
			c := *g
			return &c
		},
		Evaluate: func(g *testGenome) Vector {
			return Vector{g.x*g.x + g.y*g.y, (g.x-2)*(g.x-2) + g.y*g.y}
		},
		Crossover: func(a, b *testGenome, rng *rand.Rand) {
			a.x, b.x = b.x, a.x
		},
		Mutate: func(g *testGenome, rng *rand.Rand) {
			g.x += rng.NormFloat64() * 0.1
			g.y += rng.NormFloat64() * 0.1
		},
		OnGeneration: onGen,
	}
}

func TestRunFrontNonDominated(t *testing.T) {
	res, err := Run(context.Background(), testConfig(1, nil), 7)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Front) == 0 {
		t.Fatal("empty front")
	}
	for i := range res.Front {
		for j := range res.Front {
			if i != j && res.Front[i].Objectives.Dominates(res.Front[j].Objectives) {
				t.Fatalf("front member %d dominates %d", i, j)
			}
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	a, err := Run(context.Background(), testConfig(1, nil), 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(context.Background(), testConfig(1, nil), 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(a.Front) != len(b.Front) {
		t.Fatalf("front sizes differ: %d vs %d", len(a.Front), len(b.Front))
	}
	for i := range a.Front {
		if !reflect.DeepEqual(a.Front[i].Objectives, b.Front[i].Objectives) {
			t.Fatalf("front member %d differs between runs", i)
		}
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	seq, err := Run(context.Background(), testConfig(1, nil), 11)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	par, err := Run(context.Background(), testConfig(4, nil), 11)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range seq.Population {
		if !reflect.DeepEqual(seq.Population[i].Objectives, par.Population[i].Objectives) {
			t.Fatalf("parallel evaluation changed results at %d", i)
		}
	}
}

func TestPopulationRoundedToMultipleOfFour(t *testing.T) {
	cfg := testConfig(1, nil)
	cfg.PopulationSize = 13
	res, err := Run(context.Background(), cfg, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Population) != 16 {
		t.Fatalf("population = %d, want 16", len(res.Population))
	}
}

func TestGenerationStatsRecorded(t *testing.T) {
	var seen int
	cfg := testConfig(1, func(s GenerationStats) { seen++ })
	res, err := Run(context.Background(), cfg, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != cfg.Generations || len(res.Stats) != cfg.Generations {
		t.Fatalf("stats: callback %d, recorded %d, want %d", seen, len(res.Stats), cfg.Generations)
	}
	last := res.Stats[len(res.Stats)-1]
	if len(last.Min) != 2 || len(last.Avg) != 2 {
		t.Fatalf("stats shape wrong: %+v", last)
	}
	if last.Min[0] > last.Avg[0] || last.Min[1] > last.Avg[1] {
		t.Fatalf("min exceeds avg: %+v", last)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testConfig(1, nil), 1); err == nil {
		t.Fatal("expected context error")
	}
}

func TestDominates(t *testing.T) {
	if !(Vector{1, 1}).Dominates(Vector{2, 2}) {
		t.Fatal("strictly better should dominate")
	}
	if !(Vector{1, 2}).Dominates(Vector{1, 3}) {
		t.Fatal("weakly better should dominate")
	}
	if (Vector{1, 1}).Dominates(Vector{1, 1}) {
		t.Fatal("equal must not dominate")
	}
	if (Vector{1, 3}).Dominates(Vector{2, 2}) || (Vector{2, 2}).Dominates(Vector{1, 3}) {
		t.Fatal("trade-off pair must be mutually non-dominated")
	}
}

func TestCrowdingBoundaryInfinite(t *testing.T) {
	pop := []Individual[int]{
		{Objectives: Vector{0, 3}},
		{Objectives: Vector{1, 2}},
		{Objectives: Vector{2, 1}},
		{Objectives: Vector{3, 0}},
	}
	crowdingDistance(pop, []int{0, 1, 2, 3})
	if !math.IsInf(pop[0].crowding, 1) || !math.IsInf(pop[3].crowding, 1) {
		t.Fatal("boundary points must get infinite crowding distance")
	}
	if math.IsInf(pop[1].crowding, 1) || pop[1].crowding <= 0 {
		t.Fatalf("interior crowding = %f", pop[1].crowding)
	}
}
