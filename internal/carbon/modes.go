package carbon

import "fmt"

// Mode is a transport mode.
type Mode string

const (
	ModeTrain       Mode = "train"
	ModeTruckSmall  Mode = "truck_small"
	ModeTruckMedium Mode = "truck_medium"
	ModeTruckLarge  Mode = "truck_large"
	ModeMultimodal  Mode = "multimodal"
)

// AllModes returns every transport mode in a stable order.
func AllModes() []Mode {
	return []Mode{ModeTrain, ModeTruckSmall, ModeTruckMedium, ModeTruckLarge, ModeMultimodal}
}

// ParseMode validates a wire-format mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTrain, ModeTruckSmall, ModeTruckMedium, ModeTruckLarge, ModeMultimodal:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

// RequiresRail reports whether the mode depends on a rail link.
func (m Mode) RequiresRail() bool {
	return m == ModeTrain || m == ModeMultimodal
}

// baseFactors are kg CO2 per tonne-km by mode.
var baseFactors = map[Mode]float64{
	ModeTrain:       0.020,
	ModeTruckSmall:  0.180,
	ModeTruckMedium: 0.100,
	ModeTruckLarge:  0.062,
	ModeMultimodal:  0.040,
}

// typicalCapacities are tonnes per vehicle-equivalent by mode.
var typicalCapacities = map[Mode]float64{
	ModeTrain:       1000,
	ModeTruckSmall:  2.5,
	ModeTruckMedium: 8,
	ModeTruckLarge:  25,
	ModeMultimodal:  25,
}

// BaseFactor returns the kg CO2 per tonne-km emission factor for a mode.
func BaseFactor(m Mode) float64 { return baseFactors[m] }

// TypicalCapacity returns the typical vehicle capacity in tonnes for a mode.
func TypicalCapacity(m Mode) float64 { return typicalCapacities[m] }

// CargoType classifies the transported goods.
type CargoType string

const (
	CargoGeneral      CargoType = "general"
	CargoRefrigerated CargoType = "refrigerated"
	CargoHazardous    CargoType = "hazardous"
	CargoBulk         CargoType = "bulk"
	CargoFragile      CargoType = "fragile"
)

// AllCargoTypes returns every cargo type in a stable order.
func AllCargoTypes() []CargoType {
	return []CargoType{CargoGeneral, CargoRefrigerated, CargoHazardous, CargoBulk, CargoFragile}
}

// ParseCargoType validates a wire-format cargo type string. Empty means general.
func ParseCargoType(s string) (CargoType, error) {
	if s == "" {
		return CargoGeneral, nil
	}
	switch CargoType(s) {
	case CargoGeneral, CargoRefrigerated, CargoHazardous, CargoBulk, CargoFragile:
		return CargoType(s), nil
	}
	return "", fmt.Errorf("unknown cargo type %q", s)
}

var cargoMultipliers = map[CargoType]float64{
	CargoGeneral:      1.00,
	CargoRefrigerated: 1.35, // on-board refrigeration
	CargoHazardous:    1.10, // reduced speed, detours
	CargoBulk:         0.90,
	CargoFragile:      1.05,
}
