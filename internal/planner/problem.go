// Package planner encodes delivery plans as genomes for the evolutionary
// engine and turns terminal populations into actionable recommendations.
package planner

import (
	"math/rand"

	"ecolog/internal/carbon"
	"ecolog/internal/moea"
)

// Request is one delivery demand, immutable for the duration of a run.
type Request struct {
	ID          int              `json:"id"`
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	CargoTonnes float64          `json:"cargoTonnes"`
	CargoType   carbon.CargoType `json:"cargoType"`
	Priority    int              `json:"priority"` // 1 normal, 2 urgent, 3 critical
}

// Decision is one gene: the transport choice for a single request.
type Decision struct {
	Mode   carbon.Mode
	ViaHub string // empty means a direct leg
}

// Plan assigns one Decision per request, index-aligned with the problem's
// request list.
type Plan []Decision

// Clone returns an independent copy.
func (p Plan) Clone() Plan {
	return append(Plan(nil), p...)
}

// DefaultHubs are the regional relay hubs used when the caller supplies none.
var DefaultHubs = []string{"Alger", "Oran", "Constantine", "Sétif", "Ouargla", "Béchar"}

const (
	hubAttachProb    = 0.3 // chance a fresh gene routes via a hub
	geneMutationRate = 0.1 // per-gene resampling probability
)

// Problem binds requests, hubs and the evaluation stack for one run.
type Problem struct {
	Requests []Request
	Hubs     []string

	engine *carbon.Engine

	// modes permitted per request, precomputed from rail availability
	allowed [][]carbon.Mode
}

// NewProblem precomputes per-request mode constraints.
func NewProblem(requests []Request, hubs []string, g carbon.Geo, engine *carbon.Engine) *Problem {
	if len(hubs) == 0 {
		hubs = DefaultHubs
	}
	p := &Problem{Requests: requests, Hubs: hubs, engine: engine}
	p.allowed = make([][]carbon.Mode, len(requests))
	for i, req := range requests {
		rail := g.HasRailAccess(req.Origin) && g.HasRailAccess(req.Destination)
		for _, m := range carbon.AllModes() {
			if m.RequiresRail() && !rail {
				continue
			}
			p.allowed[i] = append(p.allowed[i], m)
		}
	}
	return p
}

// NewPlan draws a random plan: a uniformly chosen permitted mode per
// request, with a 30% chance of routing via a random hub that is neither
// endpoint.
func (p *Problem) NewPlan(rng *rand.Rand) Plan {
	plan := make(Plan, len(p.Requests))
	for i, req := range p.Requests {
		modes := p.allowed[i]
		plan[i].Mode = modes[rng.Intn(len(modes))]
		if rng.Float64() < hubAttachProb {
			if hub := p.randomHub(req, rng); hub != "" {
				plan[i].ViaHub = hub
			}
		}
	}
	return plan
}

func (p *Problem) randomHub(req Request, rng *rand.Rand) string {
	valid := make([]string, 0, len(p.Hubs))
	for _, h := range p.Hubs {
		if h != req.Origin && h != req.Destination {
			valid = append(valid, h)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	return valid[rng.Intn(len(valid))]
}

// Crossover swaps the segment between two distinct cut points, aligned to
// whole decisions. No-op on plans shorter than two genes.
func (p *Problem) Crossover(a, b Plan, rng *rand.Rand) {
	n := len(a)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	if i > j {
		i, j = j, i
	}
	for k := i; k < j; k++ {
		a[k], b[k] = b[k], a[k]
	}
}

// Mutate resamples mode and hub independently per gene at the per-gene
// rate. Hub mutation clears to direct half the time, otherwise draws from
// the full hub list.
func (p *Problem) Mutate(plan Plan, rng *rand.Rand) {
	for i := range plan {
		if rng.Float64() < geneMutationRate {
			modes := p.allowed[i]
			plan[i].Mode = modes[rng.Intn(len(modes))]
		}
		if rng.Float64() < geneMutationRate {
			if rng.Float64() < 0.5 {
				plan[i].ViaHub = ""
			} else {
				plan[i].ViaHub = p.Hubs[rng.Intn(len(p.Hubs))]
			}
		}
	}
}

// Infeasible-leg penalties keep the search running past locally invalid
// genes instead of failing the run.
const (
	penaltyCost = 1_000_000
	penaltyCO2  = 10_000
)

// Evaluate computes the (total cost, total CO2 kg) objective vector.
func (p *Problem) Evaluate(plan Plan) moea.Vector {
	var totalCost, totalCO2 float64
	for i, req := range p.Requests {
		dec := plan[i]
		legs := [][2]string{{req.Origin, req.Destination}}
		if hub := dec.ViaHub; hub != "" && hub != req.Origin && hub != req.Destination {
			legs = [][2]string{{req.Origin, hub}, {hub, req.Destination}}
		}

		var reqCost, reqCO2 float64
		for _, leg := range legs {
			res, err := p.engine.Footprint(carbon.Context{
				Origin:          leg[0],
				Destination:     leg[1],
				Mode:            dec.Mode,
				CargoTonnes:     req.CargoTonnes,
				VehicleCapacity: carbon.TypicalCapacity(dec.Mode),
				CargoType:       req.CargoType,
			})
			if err != nil {
				reqCost += penaltyCost
				reqCO2 += penaltyCO2
				continue
			}
			reqCost += res.TotalCostDZD
			reqCO2 += res.TotalCO2Kg
		}

		// Urgent shipments discourage the slowest-dispatch mode.
		if req.Priority > 1 && dec.Mode == carbon.ModeTrain {
			reqCost *= 1.2
		}

		totalCost += reqCost
		totalCO2 += reqCO2
	}
	return moea.Vector{totalCost, totalCO2}
}
