package carbon

import (
	"math"
	"testing"
)

func TestCompareModesCapacityScaling(t *testing.T) {
	e := testEngine(t)
	cmp, err := e.CompareModes("Alger", "Constantine", 50, CargoGeneral)
	if err != nil {
		t.Fatalf("CompareModes: %v", err)
	}
	// 50 t over 25 t trucks: exactly 2 vehicles, each at full load.
	opt := cmp.PerMode[ModeTruckLarge]
	if opt.Vehicles != 2 {
		t.Fatalf("vehicles = %d, want 2", opt.Vehicles)
	}
	single, err := e.Footprint(Context{
		Origin:          "Alger",
		Destination:     "Constantine",
		Mode:            ModeTruckLarge,
		CargoTonnes:     25,
		VehicleCapacity: 25,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	if math.Abs(opt.TotalCO2Kg-2*single.TotalCO2Kg) > 0.02 {
		t.Fatalf("total = %f, want 2 x %f", opt.TotalCO2Kg, single.TotalCO2Kg)
	}
}

func TestCompareModesRecommendation(t *testing.T) {
	e := testEngine(t)
	cmp, err := e.CompareModes("Alger", "Oran", 50, CargoGeneral)
	if err != nil {
		t.Fatalf("CompareModes: %v", err)
	}
	if cmp.BestMode != ModeTrain {
		t.Fatalf("best mode on a rail corridor = %s, want train", cmp.BestMode)
	}
	if cmp.BestCO2Kg >= cmp.WorstCO2Kg {
		t.Fatalf("best %f should beat worst %f", cmp.BestCO2Kg, cmp.WorstCO2Kg)
	}
	if cmp.SavingsPercent <= 0 || cmp.SavingsPercent > 100 {
		t.Fatalf("savings percent out of range: %f", cmp.SavingsPercent)
	}
	if len(cmp.PerMode) != len(AllModes()) {
		t.Fatalf("perMode has %d entries, want %d", len(cmp.PerMode), len(AllModes()))
	}
}

func TestEvaluateRoute(t *testing.T) {
	e := testEngine(t)
	route := []string{"Alger", "Sétif", "Batna", "Biskra"}
	fp, err := e.EvaluateRoute(route, 15, ModeTruckLarge, CargoGeneral)
	if err != nil {
		t.Fatalf("EvaluateRoute: %v", err)
	}
	if len(fp.Legs) != 3 {
		t.Fatalf("legs = %d, want 3", len(fp.Legs))
	}
	var dist, co2 float64
	for _, leg := range fp.Legs {
		dist += leg.DistanceKm
		co2 += leg.CO2Kg
	}
	if math.Abs(fp.TotalDistanceKm-dist) > 0.02 || math.Abs(fp.TotalCO2Kg-co2) > 0.02 {
		t.Fatalf("totals don't match leg sums: %+v", fp)
	}
}

func TestEvaluateRouteTooShort(t *testing.T) {
	e := testEngine(t)
	if _, err := e.EvaluateRoute([]string{"Alger"}, 10, ModeTruckLarge, CargoGeneral); err == nil {
		t.Fatal("expected error for single-stop route")
	}
}
