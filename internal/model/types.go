package model

// Request and response shapes for the HTTP API.

// DeliveryRequest is one shipment to plan.
type DeliveryRequest struct {
	ID          int     `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	CargoTonnes float64 `json:"cargoTonnes"`
	CargoType   string  `json:"cargoType,omitempty"`
	Priority    int     `json:"priority,omitempty"`
}

// OptimizeRequest configures one multi-objective planning run.
type OptimizeRequest struct {
	Requests       []DeliveryRequest `json:"requests"`
	Hubs           []string          `json:"hubs,omitempty"`
	PopulationSize int               `json:"populationSize,omitempty"`
	Generations    int               `json:"generations,omitempty"`
	Alpha          *float64          `json:"alpha,omitempty"` // nil defaults to 0.5
	Seed           int64             `json:"seed,omitempty"`
	Async          bool              `json:"async,omitempty"`
}

// SampleRequest asks the server to synthesize demand for a demo run.
type SampleRequest struct {
	Count int   `json:"count,omitempty"`
	Seed  int64 `json:"seed,omitempty"`
}

// FootprintRequest computes emissions for a single shipment leg.
type FootprintRequest struct {
	Origin          string  `json:"origin"`
	Destination     string  `json:"destination"`
	Mode            string  `json:"transportMode"`
	CargoTonnes     float64 `json:"cargoTonnes"`
	VehicleCapacity float64 `json:"vehicleCapacity,omitempty"`
	CargoType       string  `json:"cargoType,omitempty"`
	ReturnTrip      bool    `json:"returnTrip,omitempty"`
}

// CompareRequest ranks all transport modes for one origin/destination pair.
type CompareRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	CargoTonnes float64 `json:"cargoTonnes"`
	CargoType   string  `json:"cargoType,omitempty"`
}

// RouteFootprintRequest evaluates emissions along an ordered multi-stop route.
type RouteFootprintRequest struct {
	Route       []string `json:"route"`
	CargoTonnes float64  `json:"cargoTonnes"`
	Mode        string   `json:"transportMode"`
	CargoType   string   `json:"cargoType,omitempty"`
}

// TourRequest orders a multi-stop tour. When a transport mode is given the
// response also carries the emissions of the optimized tour.
type TourRequest struct {
	Depot          string   `json:"depot"`
	Stops          []string `json:"stops"`
	ReturnToDepot  bool     `json:"returnToDepot,omitempty"`
	PopulationSize int      `json:"populationSize,omitempty"`
	Generations    int      `json:"generations,omitempty"`
	MutationRate   float64  `json:"mutationRate,omitempty"`
	Seed           int64    `json:"seed,omitempty"`

	Mode        string  `json:"transportMode,omitempty"`
	CargoTonnes float64 `json:"cargoTonnes,omitempty"`
	CargoType   string  `json:"cargoType,omitempty"`
}
