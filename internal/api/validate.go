package api

import (
	"fmt"

	"ecolog/internal/model"
)

const (
	maxRequests    = 200
	maxPopulation  = 2000
	maxGenerations = 1000
	maxTourStops   = 50
)

func validateOptimizeRequest(req *model.OptimizeRequest) error {
	if len(req.Requests) == 0 {
		return fmt.Errorf("requests must not be empty")
	}
	if len(req.Requests) > maxRequests {
		return fmt.Errorf("too many requests: %d (max %d)", len(req.Requests), maxRequests)
	}
	for i, r := range req.Requests {
		if r.Origin == "" || r.Destination == "" {
			return fmt.Errorf("request %d: origin and destination are required", i)
		}
		if r.Origin == r.Destination {
			return fmt.Errorf("request %d: origin equals destination", i)
		}
		if r.CargoTonnes <= 0 {
			return fmt.Errorf("request %d: cargoTonnes must be > 0", i)
		}
		if r.Priority < 0 || r.Priority > 3 {
			return fmt.Errorf("request %d: priority must be in 0..3", i)
		}
	}
	if req.PopulationSize < 0 || req.PopulationSize > maxPopulation {
		return fmt.Errorf("populationSize must be in 0..%d", maxPopulation)
	}
	if req.Generations < 0 || req.Generations > maxGenerations {
		return fmt.Errorf("generations must be in 0..%d", maxGenerations)
	}
	if req.Alpha != nil && (*req.Alpha < 0 || *req.Alpha > 1) {
		return fmt.Errorf("alpha must be in [0,1]")
	}
	return nil
}

func validateFootprintRequest(req *model.FootprintRequest) error {
	if req.Origin == "" || req.Destination == "" {
		return fmt.Errorf("origin and destination are required")
	}
	if req.CargoTonnes <= 0 {
		return fmt.Errorf("cargoTonnes must be > 0")
	}
	if req.VehicleCapacity < 0 {
		return fmt.Errorf("vehicleCapacity must be >= 0")
	}
	return nil
}

func validateTourRequest(req *model.TourRequest) error {
	if len(req.Stops) == 0 {
		return fmt.Errorf("stops must not be empty")
	}
	if len(req.Stops) > maxTourStops {
		return fmt.Errorf("too many stops: %d (max %d)", len(req.Stops), maxTourStops)
	}
	if req.MutationRate < 0 || req.MutationRate > 1 {
		return fmt.Errorf("mutationRate must be in [0,1]")
	}
	if req.Mode != "" && req.CargoTonnes <= 0 {
		return fmt.Errorf("cargoTonnes must be > 0 when transportMode is set")
	}
	return nil
}
