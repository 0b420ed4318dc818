package planner

import (
	"math"
	"sort"

	"ecolog/internal/carbon"
	"ecolog/internal/moea"
)

// DecisionDetail is one decoded gene of a solution.
type DecisionDetail struct {
	RequestID   int         `json:"requestId"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	CargoTonnes float64     `json:"cargoTonnes"`
	Mode        carbon.Mode `json:"transportMode"`
	ViaHub      string      `json:"viaHub,omitempty"`
}

// Solution is a decoded, API-facing member of the Pareto front.
type Solution struct {
	TotalCostDZD  float64          `json:"totalCostDzd"`
	TotalCO2Kg    float64          `json:"totalCo2Kg"`
	WeightedScore float64          `json:"weightedScore"`
	Decisions     []DecisionDetail `json:"decisions"`
}

// decodeFront turns front individuals into Solutions sorted by cost.
func decodeFront(prob *Problem, front []moea.Individual[Plan]) []Solution {
	out := make([]Solution, 0, len(front))
	for _, ind := range front {
		sol := Solution{
			TotalCostDZD: math.Round(ind.Objectives[0]),
			TotalCO2Kg:   math.Round(ind.Objectives[1]*100) / 100,
		}
		for i, req := range prob.Requests {
			sol.Decisions = append(sol.Decisions, DecisionDetail{
				RequestID:   req.ID,
				Origin:      req.Origin,
				Destination: req.Destination,
				CargoTonnes: req.CargoTonnes,
				Mode:        ind.Genome[i].Mode,
				ViaHub:      ind.Genome[i].ViaHub,
			})
		}
		out = append(out, sol)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].TotalCostDZD != out[b].TotalCostDZD {
			return out[a].TotalCostDZD < out[b].TotalCostDZD
		}
		return out[a].TotalCO2Kg < out[b].TotalCO2Kg
	})
	return out
}

// scoreFront normalizes both objectives to [0,1] against the front's own
// range and assigns the alpha-weighted score. A flat objective contributes
// a constant zero.
func scoreFront(front []Solution, alpha float64) {
	if len(front) == 0 {
		return
	}
	minCost, maxCost := front[0].TotalCostDZD, front[0].TotalCostDZD
	minCO2, maxCO2 := front[0].TotalCO2Kg, front[0].TotalCO2Kg
	for _, s := range front {
		minCost = math.Min(minCost, s.TotalCostDZD)
		maxCost = math.Max(maxCost, s.TotalCostDZD)
		minCO2 = math.Min(minCO2, s.TotalCO2Kg)
		maxCO2 = math.Max(maxCO2, s.TotalCO2Kg)
	}
	for i := range front {
		var normCost, normCO2 float64
		if maxCost > minCost {
			normCost = (front[i].TotalCostDZD - minCost) / (maxCost - minCost)
		}
		if maxCO2 > minCO2 {
			normCO2 = (front[i].TotalCO2Kg - minCO2) / (maxCO2 - minCO2)
		}
		front[i].WeightedScore = alpha*normCost + (1-alpha)*normCO2
	}
}

// recommend picks the front member with the lowest weighted score. Nil for
// an empty front.
func recommend(front []Solution) *Solution {
	if len(front) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(front); i++ {
		if front[i].WeightedScore < front[best].WeightedScore {
			best = i
		}
	}
	s := front[best]
	return &s
}

// Analysis summarizes how a solution distributes work across modes and hubs.
type Analysis struct {
	ModeDistribution map[carbon.Mode]ModeUsage `json:"modeDistribution"`
	HubUsage         map[string]int            `json:"hubUsage"`
	DirectRoutes     int                       `json:"directRoutes"`
	HubRoutes        int                       `json:"hubRoutes"`
}

// ModeUsage counts shipments and tonnage assigned to one mode.
type ModeUsage struct {
	Count       int     `json:"count"`
	TotalTonnes float64 `json:"totalTonnes"`
}

// Analyze breaks a solution down by transport mode and hub usage.
func (s Solution) Analyze() Analysis {
	a := Analysis{
		ModeDistribution: map[carbon.Mode]ModeUsage{},
		HubUsage:         map[string]int{},
	}
	for _, d := range s.Decisions {
		u := a.ModeDistribution[d.Mode]
		u.Count++
		u.TotalTonnes += d.CargoTonnes
		a.ModeDistribution[d.Mode] = u
		if d.ViaHub != "" {
			a.HubUsage[d.ViaHub]++
			a.HubRoutes++
		} else {
			a.DirectRoutes++
		}
	}
	return a
}
