package carbon

import (
	"fmt"
	"math"

	"ecolog/internal/geo"
)

// Geo is the reference-data surface the engine consumes. Implementations
// must be deterministic and side-effect free; *geo.Dataset satisfies it.
type Geo interface {
	Distance(a, b string) (float64, error)
	RailDistance(a, b string) (float64, bool)
	Zone(name string) geo.Zone
	HasRailAccess(name string) bool
}

// Context describes one transport leg to evaluate.
type Context struct {
	Origin          string
	Destination     string
	Mode            Mode
	CargoTonnes     float64
	VehicleCapacity float64
	CargoType       CargoType
	ReturnTrip      bool
}

// Result is the outcome of a footprint evaluation. Mode reflects any rail
// fallback substitution.
type Result struct {
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	Mode            Mode     `json:"transportMode"`
	DistanceKm      float64  `json:"distanceKm"`
	CargoTonnes     float64  `json:"cargoTonnes"`
	TotalCostDZD    float64  `json:"totalCostDzd"`
	TotalCO2Kg      float64  `json:"totalCo2Kg"`
	CO2PerTonneKm   float64  `json:"co2PerTonneKm"`
	EfficiencyScore float64  `json:"efficiencyScore"`
	RailFallback    bool     `json:"railFallback,omitempty"`
	RulesApplied    []string `json:"rulesApplied"`
}

var zoneMultipliers = map[geo.Zone]float64{
	geo.ZoneNorth:     1.00,
	geo.ZoneHighlands: 1.15, // altitude, winding roads
	geo.ZoneSouth:     1.40, // extreme heat, sand, wear
}

// extremeSouth wilayas carry an additional remoteness penalty.
var extremeSouth = map[string]bool{
	"Tamanrasset":         true,
	"In Guezzam":          true,
	"Djanet":              true,
	"Illizi":              true,
	"Bordj Badji Mokhtar": true,
}

// Engine evaluates the ordered emission rule cascade. It holds only the
// reference-data handle; per-call bookkeeping stays on the stack, so one
// engine value is safe to share across concurrent runs.
type Engine struct {
	geo Geo
}

// NewEngine returns an Engine over the given reference data.
func NewEngine(g Geo) *Engine { return &Engine{geo: g} }

// multiplier is one post-base rule contribution to the effective factor.
type multiplier struct {
	desc   string
	factor float64
}

// Footprint evaluates the rule cascade for one leg.
//
// The base factor seeds the effective factor; every subsequent rule is an
// unconditional multiplier. The historical implementation separated the two
// by comparing float values against the base factor, which could silently
// drop a rule whose multiplier happened to equal it.
func (e *Engine) Footprint(c Context) (Result, error) {
	if c.CargoTonnes <= 0 {
		return Result{}, fmt.Errorf("cargo tonnes must be > 0")
	}
	if c.VehicleCapacity <= 0 {
		return Result{}, fmt.Errorf("vehicle capacity must be > 0")
	}

	distance, err := e.geo.Distance(c.Origin, c.Destination)
	if err != nil {
		return Result{}, err
	}

	var rules []string
	fallback := false

	// Rail availability rewrite, once, before the cascade.
	if c.Mode == ModeTrain {
		if _, ok := e.geo.RailDistance(c.Origin, c.Destination); !ok {
			c.Mode = ModeTruckLarge
			fallback = true
			rules = append(rules, fmt.Sprintf("R0: no rail link %s-%s, falling back to %s", c.Origin, c.Destination, ModeTruckLarge))
		}
	}

	base := baseFactors[c.Mode]
	rules = append(rules, fmt.Sprintf("R1: mode %s, base %.3f kg CO2/t.km", c.Mode, base))

	var mults []multiplier

	destZone := e.geo.Zone(c.Destination)
	destMult := zoneMultipliers[destZone]
	mults = append(mults, multiplier{
		desc:   fmt.Sprintf("R2: destination zone %s, x%.2f", destZone, destMult),
		factor: destMult,
	})

	// Crossing zones: blend origin and destination multipliers. Expressed as
	// a correction relative to R2 so the composed zone contribution equals
	// the two-zone average.
	originZone := e.geo.Zone(c.Origin)
	if originZone != destZone {
		avg := (destMult + zoneMultipliers[originZone]) / 2
		mults = append(mults, multiplier{
			desc:   fmt.Sprintf("R3: crossing %s to %s, avg x%.2f", originZone, destZone, avg),
			factor: avg / destMult,
		})
	}

	utilization := c.CargoTonnes / c.VehicleCapacity * 100
	loadMult := loadFactor(utilization)
	mults = append(mults, multiplier{
		desc:   fmt.Sprintf("R4: load %.0f%%, x%.2f", utilization, loadMult),
		factor: loadMult,
	})

	cargoMult := cargoMultipliers[c.CargoType]
	if cargoMult == 0 {
		cargoMult = 1.0
	}
	mults = append(mults, multiplier{
		desc:   fmt.Sprintf("R5: cargo %s, x%.2f", c.CargoType, cargoMult),
		factor: cargoMult,
	})

	// Near-empty return leg: charge 70% of the forward trip on top.
	if c.ReturnTrip && utilization < 10 {
		mults = append(mults, multiplier{
			desc:   "R6: empty return, +70% of forward trip",
			factor: 1.70,
		})
	}

	if c.Mode == ModeTrain && distance > 300 {
		mults = append(mults, multiplier{
			desc:   fmt.Sprintf("R7: long-haul rail (%.0f km), x0.85", distance),
			factor: 0.85,
		})
	}

	if extremeSouth[c.Origin] || extremeSouth[c.Destination] {
		mults = append(mults, multiplier{
			desc:   "R8: extreme south endpoint, x1.25",
			factor: 1.25,
		})
	}

	factor := base
	for _, m := range mults {
		factor *= m.factor
		rules = append(rules, m.desc)
	}

	totalCO2 := factor * c.CargoTonnes * distance

	return Result{
		Origin:          c.Origin,
		Destination:     c.Destination,
		Mode:            c.Mode,
		DistanceKm:      round2(distance),
		CargoTonnes:     c.CargoTonnes,
		TotalCostDZD:    round2(LegCost(c.Mode, distance, c.CargoTonnes)),
		TotalCO2Kg:      round2(totalCO2),
		CO2PerTonneKm:   round4(factor),
		EfficiencyScore: efficiencyScore(totalCO2, c.CargoTonnes, distance),
		RailFallback:    fallback,
		RulesApplied:    rules,
	}, nil
}

// loadFactor returns the partial-load inefficiency penalty for a
// utilization percentage.
func loadFactor(pct float64) float64 {
	switch {
	case pct < 25:
		return 2.5
	case pct < 50:
		return 1.6
	case pct < 75:
		return 1.2
	default:
		return 1.0
	}
}

// efficiencyScore places the result between the best achievable factor
// (long-haul train) and the worst (near-empty small truck in the south).
func efficiencyScore(co2, tonnes, distance float64) float64 {
	best := baseFactors[ModeTrain] * 0.85 * tonnes * distance
	worst := baseFactors[ModeTruckSmall] * 1.4 * 2.5 * tonnes * distance
	if worst <= best {
		return 0
	}
	return round1(100 * (1 - (co2-best)/(worst-best)))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
