package carbon

import (
	"math"
	"strings"
	"testing"

	"ecolog/internal/geo"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(geo.MustLoad())
}

func TestFootprintExtremeSouth(t *testing.T) {
	e := testEngine(t)
	// Both endpoints in the south zone, one in the extreme set: the
	// effective factor is base x zone x load x extreme penalty.
	res, err := e.Footprint(Context{
		Origin:          "In Guezzam",
		Destination:     "Tindouf",
		Mode:            ModeTruckLarge,
		CargoTonnes:     20,
		VehicleCapacity: 25,
		CargoType:       CargoGeneral,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	want := 0.062 * 1.40 * 1.0 * 1.0 * 1.25 // 0.1085
	if math.Abs(res.CO2PerTonneKm-want) > 1e-4 {
		t.Fatalf("factor = %f, want %f", res.CO2PerTonneKm, want)
	}
	wantCO2 := want * 20 * res.DistanceKm
	if math.Abs(res.TotalCO2Kg-wantCO2) > 1 {
		t.Fatalf("co2 = %f, want %f", res.TotalCO2Kg, wantCO2)
	}
	if res.DistanceKm < 1900 || res.DistanceKm > 2300 {
		t.Fatalf("distance = %f, expected roughly 2000 km", res.DistanceKm)
	}
}

func TestFootprintZoneCrossing(t *testing.T) {
	e := testEngine(t)
	// Alger (nord) -> Tamanrasset (sud): R3 corrects the destination-zone
	// multiplier so the composed contribution is the two-zone average.
	res, err := e.Footprint(Context{
		Origin:          "Alger",
		Destination:     "Tamanrasset",
		Mode:            ModeTruckLarge,
		CargoTonnes:     20,
		VehicleCapacity: 25,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	want := 0.062 * ((1.40 + 1.00) / 2) * 1.0 * 1.0 * 1.25 // 0.0930
	if math.Abs(res.CO2PerTonneKm-want) > 1e-4 {
		t.Fatalf("factor = %f, want %f", res.CO2PerTonneKm, want)
	}
	found := false
	for _, r := range res.RulesApplied {
		if strings.HasPrefix(r, "R3:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("zone-crossing rule missing from trace: %v", res.RulesApplied)
	}
}

func TestFootprintLoadBrackets(t *testing.T) {
	e := testEngine(t)
	cases := []struct {
		tonnes float64
		mult   float64
	}{
		{2, 2.5},  // 8%
		{10, 1.6}, // 40%
		{15, 1.2}, // 60%
		{25, 1.0}, // 100%
	}
	for _, c := range cases {
		res, err := e.Footprint(Context{
			Origin:          "Alger",
			Destination:     "Blida",
			Mode:            ModeTruckLarge,
			CargoTonnes:     c.tonnes,
			VehicleCapacity: 25,
		})
		if err != nil {
			t.Fatalf("Footprint: %v", err)
		}
		want := 0.062 * c.mult // both nord, no other rules fire
		if math.Abs(res.CO2PerTonneKm-want) > 1e-4 {
			t.Fatalf("tonnes=%v: factor = %f, want %f", c.tonnes, res.CO2PerTonneKm, want)
		}
	}
}

func TestFootprintEmptyReturn(t *testing.T) {
	e := testEngine(t)
	res, err := e.Footprint(Context{
		Origin:          "Alger",
		Destination:     "Blida",
		Mode:            ModeTruckLarge,
		CargoTonnes:     1, // 4% utilization
		VehicleCapacity: 25,
		ReturnTrip:      true,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	want := 0.062 * 2.5 * 1.70
	if math.Abs(res.CO2PerTonneKm-want) > 1e-4 {
		t.Fatalf("factor = %f, want %f", res.CO2PerTonneKm, want)
	}
}

func TestFootprintLongHaulRailBonus(t *testing.T) {
	e := testEngine(t)
	res, err := e.Footprint(Context{
		Origin:          "Alger",
		Destination:     "Oran",
		Mode:            ModeTrain,
		CargoTonnes:     800,
		VehicleCapacity: 1000,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	if res.DistanceKm <= 300 {
		t.Fatalf("expected long-haul distance, got %f", res.DistanceKm)
	}
	want := 0.020 * 0.85 // nord-nord, 80% load
	if math.Abs(res.CO2PerTonneKm-want) > 1e-4 {
		t.Fatalf("factor = %f, want %f", res.CO2PerTonneKm, want)
	}
}

func TestFootprintRailFallback(t *testing.T) {
	e := testEngine(t)
	res, err := e.Footprint(Context{
		Origin:          "Alger",
		Destination:     "Tamanrasset", // no rail access
		Mode:            ModeTrain,
		CargoTonnes:     20,
		VehicleCapacity: 25,
	})
	if err != nil {
		t.Fatalf("Footprint: %v", err)
	}
	if res.Mode != ModeTruckLarge {
		t.Fatalf("mode = %s, want %s", res.Mode, ModeTruckLarge)
	}
	if !res.RailFallback {
		t.Fatal("RailFallback not set")
	}
	if len(res.RulesApplied) == 0 || !strings.Contains(res.RulesApplied[0], "falling back") {
		t.Fatalf("fallback not recorded in trace: %v", res.RulesApplied)
	}
}

func TestFootprintInputErrors(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Footprint(Context{Origin: "Alger", Destination: "Oran", Mode: ModeTruckLarge, CargoTonnes: 0, VehicleCapacity: 25}); err == nil {
		t.Fatal("expected error for non-positive mass")
	}
	if _, err := e.Footprint(Context{Origin: "Alger", Destination: "Atlantis", Mode: ModeTruckLarge, CargoTonnes: 5, VehicleCapacity: 25}); err == nil {
		t.Fatal("expected error for unknown destination")
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := ParseMode("hovercraft"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if m, err := ParseMode("train"); err != nil || m != ModeTrain {
		t.Fatalf("ParseMode(train) = %v, %v", m, err)
	}
	if ct, err := ParseCargoType(""); err != nil || ct != CargoGeneral {
		t.Fatalf("empty cargo type should default to general, got %v, %v", ct, err)
	}
	if _, err := ParseCargoType("liquid"); err == nil {
		t.Fatal("expected error for unknown cargo type")
	}
}
