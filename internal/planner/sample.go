package planner

import (
	"math"
	"math/rand"

	"ecolog/internal/carbon"
	"ecolog/internal/geo"
)

// GenerateSampleRequests builds deterministic synthetic delivery demand for
// demos and benchmarks. Origins are drawn weighted by each wilaya's freight
// demand; destinations uniformly among the rest.
func GenerateSampleRequests(d *geo.Dataset, n int, seed int64) []Request {
	rng := rand.New(rand.NewSource(seed))
	wilayas := d.All()

	var totalDemand float64
	for _, w := range wilayas {
		totalDemand += w.DemandTonnes
	}

	cargoTypes := carbon.AllCargoTypes()
	out := make([]Request, 0, n)
	for i := 0; i < n; i++ {
		origin := weightedPick(wilayas, totalDemand, rng)
		dest := wilayas[rng.Intn(len(wilayas))].Name
		for dest == origin {
			dest = wilayas[rng.Intn(len(wilayas))].Name
		}
		out = append(out, Request{
			ID:          i,
			Origin:      origin,
			Destination: dest,
			CargoTonnes: math.Round((2+rng.Float64()*48)*10) / 10,
			CargoType:   cargoTypes[rng.Intn(len(cargoTypes))],
			Priority:    samplePriority(rng),
		})
	}
	return out
}

func weightedPick(wilayas []geo.Wilaya, total float64, rng *rand.Rand) string {
	r := rng.Float64() * total
	acc := 0.0
	for _, w := range wilayas {
		acc += w.DemandTonnes
		if r <= acc {
			return w.Name
		}
	}
	return wilayas[len(wilayas)-1].Name
}

// samplePriority draws 1/2/3 with 70/20/10 weights.
func samplePriority(rng *rand.Rand) int {
	r := rng.Float64()
	switch {
	case r < 0.7:
		return 1
	case r < 0.9:
		return 2
	default:
		return 3
	}
}
