package carbon

// Transport cost model in DZD: fixed dispatch cost per vehicle plus a
// per-kilometer rate, surcharged 2% per tonne above a 10-tonne threshold.
// Priority surcharges are the planner's concern, not the leg model's.

var costPerKm = map[Mode]float64{
	ModeTrain:       15,
	ModeTruckSmall:  45,
	ModeTruckMedium: 35,
	ModeTruckLarge:  28,
	ModeMultimodal:  22,
}

var fixedCost = map[Mode]float64{
	ModeTrain:       50000, // wagon reservation
	ModeTruckSmall:  5000,
	ModeTruckMedium: 8000,
	ModeTruckLarge:  12000,
	ModeMultimodal:  15000, // transfer coordination
}

const (
	tonnageThreshold = 10.0
	tonnageSurcharge = 0.02
)

// LegCost returns the transport cost of one leg in DZD.
func LegCost(mode Mode, distanceKm, tonnes float64) float64 {
	cost := fixedCost[mode] + costPerKm[mode]*distanceKm
	if tonnes > tonnageThreshold {
		cost *= 1 + (tonnes-tonnageThreshold)*tonnageSurcharge
	}
	return cost
}
