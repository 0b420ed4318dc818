package carbon

import (
	"math"
	"testing"
)

func TestLegCostFixedPlusPerKm(t *testing.T) {
	got := LegCost(ModeTruckLarge, 400, 10)
	want := 12000 + 28.0*400
	if got != want {
		t.Fatalf("LegCost = %f, want %f", got, want)
	}
}

func TestLegCostTonnageSurcharge(t *testing.T) {
	base := LegCost(ModeTrain, 500, 10)
	heavy := LegCost(ModeTrain, 500, 25)
	// 15 tonnes above the threshold: +30%.
	if want := base * 1.3; heavy != want {
		t.Fatalf("surcharged cost = %f, want %f", heavy, want)
	}
}

func TestFootprintCarriesLegCost(t *testing.T) {
	e := testEngine(t)
	res, err := e.Footprint(Context{
		Origin:          "Alger",
		Destination:     "Oran",
		Mode:            ModeTruckMedium,
		CargoTonnes:     8,
		VehicleCapacity: TypicalCapacity(ModeTruckMedium),
		CargoType:       CargoGeneral,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	want := LegCost(ModeTruckMedium, res.DistanceKm, 8)
	if math.Abs(res.TotalCostDZD-want) > 0.5 {
		t.Fatalf("TotalCostDZD = %f, want ~%f", res.TotalCostDZD, want)
	}
}
