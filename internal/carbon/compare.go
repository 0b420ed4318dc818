package carbon

import (
	"fmt"
	"math"
)

// ModeOption is one row of a mode comparison.
type ModeOption struct {
	Result
	Vehicles int `json:"vehicles"`
}

// Comparison ranks all transport modes for one origin/destination pair.
type Comparison struct {
	PerMode        map[Mode]ModeOption `json:"perMode"`
	BestMode       Mode                `json:"bestMode"`
	WorstMode      Mode                `json:"worstMode"`
	BestCO2Kg      float64             `json:"bestCo2Kg"`
	WorstCO2Kg     float64             `json:"worstCo2Kg"`
	SavingsKg      float64             `json:"potentialSavingsKg"`
	SavingsPercent float64             `json:"potentialSavingsPercent"`
}

// CompareModes evaluates every mode at its typical capacity. Cargo heavier
// than one vehicle is split evenly over ceil(mass/capacity) vehicles and the
// per-vehicle CO2 scaled by the vehicle count.
func (e *Engine) CompareModes(origin, destination string, tonnes float64, cargo CargoType) (Comparison, error) {
	if tonnes <= 0 {
		return Comparison{}, fmt.Errorf("cargo tonnes must be > 0")
	}
	cmp := Comparison{PerMode: make(map[Mode]ModeOption, len(AllModes()))}
	for _, mode := range AllModes() {
		capacity := typicalCapacities[mode]
		vehicles := 1
		if tonnes > capacity {
			vehicles = int(math.Ceil(tonnes / capacity))
		}
		perVehicle := tonnes / float64(vehicles)
		res, err := e.Footprint(Context{
			Origin:          origin,
			Destination:     destination,
			Mode:            mode,
			CargoTonnes:     perVehicle,
			VehicleCapacity: capacity,
			CargoType:       cargo,
		})
		if err != nil {
			return Comparison{}, err
		}
		res.TotalCO2Kg = round2(res.TotalCO2Kg * float64(vehicles))
		res.TotalCostDZD = round2(res.TotalCostDZD * float64(vehicles))
		cmp.PerMode[mode] = ModeOption{Result: res, Vehicles: vehicles}

		if cmp.BestMode == "" || res.TotalCO2Kg < cmp.BestCO2Kg {
			cmp.BestMode = mode
			cmp.BestCO2Kg = res.TotalCO2Kg
		}
		if cmp.WorstMode == "" || res.TotalCO2Kg > cmp.WorstCO2Kg {
			cmp.WorstMode = mode
			cmp.WorstCO2Kg = res.TotalCO2Kg
		}
	}
	cmp.SavingsKg = round2(cmp.WorstCO2Kg - cmp.BestCO2Kg)
	if cmp.WorstCO2Kg > 0 {
		cmp.SavingsPercent = round1(100 * cmp.SavingsKg / cmp.WorstCO2Kg)
	}
	return cmp, nil
}

// RouteLeg is one consecutive pair of a multi-stop route footprint.
type RouteLeg struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distanceKm"`
	CO2Kg      float64 `json:"co2Kg"`
}

// RouteFootprint is the summed footprint of an ordered multi-stop route.
type RouteFootprint struct {
	Route           []string   `json:"route"`
	TotalDistanceKm float64    `json:"totalDistanceKm"`
	TotalCostDZD    float64    `json:"totalCostDzd"`
	TotalCO2Kg      float64    `json:"totalCo2Kg"`
	CO2PerKm        float64    `json:"co2PerKm"`
	Legs            []RouteLeg `json:"legs"`
}

// EvaluateRoute sums per-leg footprints across consecutive location pairs.
func (e *Engine) EvaluateRoute(route []string, tonnes float64, mode Mode, cargo CargoType) (RouteFootprint, error) {
	if len(route) < 2 {
		return RouteFootprint{}, fmt.Errorf("route needs at least 2 wilayas, got %d", len(route))
	}
	capacity := typicalCapacities[mode]
	out := RouteFootprint{Route: route}
	for i := 0; i < len(route)-1; i++ {
		res, err := e.Footprint(Context{
			Origin:          route[i],
			Destination:     route[i+1],
			Mode:            mode,
			CargoTonnes:     tonnes,
			VehicleCapacity: capacity,
			CargoType:       cargo,
		})
		if err != nil {
			return RouteFootprint{}, err
		}
		out.Legs = append(out.Legs, RouteLeg{
			From:       route[i],
			To:         route[i+1],
			DistanceKm: res.DistanceKm,
			CO2Kg:      res.TotalCO2Kg,
		})
		out.TotalDistanceKm += res.DistanceKm
		out.TotalCostDZD += res.TotalCostDZD
		out.TotalCO2Kg += res.TotalCO2Kg
	}
	out.TotalDistanceKm = round2(out.TotalDistanceKm)
	out.TotalCostDZD = round2(out.TotalCostDZD)
	out.TotalCO2Kg = round2(out.TotalCO2Kg)
	if out.TotalDistanceKm > 0 {
		out.CO2PerKm = round4(out.TotalCO2Kg / out.TotalDistanceKm)
	}
	return out, nil
}
