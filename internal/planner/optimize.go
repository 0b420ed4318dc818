package planner

import (
	"context"

	"ecolog/internal/moea"
)

// Options configure one optimization run.
type Options struct {
	PopulationSize int     // default 100, rounded up to a multiple of 4
	Generations    int     // default 50
	Alpha          float64 // cost/CO2 preference in [0,1]: 0 = emissions only, 1 = cost only
	Seed           int64   // default 42
	Workers        int     // evaluation fan-out

	// OnGeneration observes per-generation stats, e.g. for progress streaming.
	OnGeneration func(moea.GenerationStats)
}

func (o Options) withDefaults() Options {
	if o.PopulationSize <= 0 {
		o.PopulationSize = 100
	}
	if o.Generations <= 0 {
		o.Generations = 50
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// Result is the outcome of one multi-objective optimization run.
type Result struct {
	ParetoFront    []Solution             `json:"paretoFront"`
	Recommended    *Solution              `json:"recommended,omitempty"`
	Alpha          float64                `json:"alpha"`
	PopulationSize int                    `json:"populationSize"`
	Generations    int                    `json:"generations"`
	Logbook        []moea.GenerationStats `json:"logbook"`
}

// Optimize runs the evolutionary search over the problem's requests and
// post-processes the terminal population into a sorted Pareto front with an
// alpha-weighted recommendation. An empty front (degenerate input) yields a
// nil recommendation, not an error.
func Optimize(ctx context.Context, prob *Problem, opts Options) (Result, error) {
	opts = opts.withDefaults()

	cfg := moea.Config[Plan]{
		PopulationSize: opts.PopulationSize,
		Generations:    opts.Generations,
		Workers:        opts.Workers,
		NewGenome:      prob.NewPlan,
		Clone:          Plan.Clone,
		Evaluate:       prob.Evaluate,
		Crossover:      prob.Crossover,
		Mutate:         prob.Mutate,
		OnGeneration:   opts.OnGeneration,
	}

	run, err := moea.Run(ctx, cfg, opts.Seed)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Alpha:          opts.Alpha,
		PopulationSize: len(run.Population),
		Generations:    opts.Generations,
		Logbook:        run.Stats,
	}
	res.ParetoFront = decodeFront(prob, run.Front)
	scoreFront(res.ParetoFront, opts.Alpha)
	res.Recommended = recommend(res.ParetoFront)
	return res, nil
}
