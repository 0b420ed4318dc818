package geo

import (
	_ "embed"
	"fmt"
	"math"
	"sort"

	yaml "gopkg.in/yaml.v3"
)

// Zone is the coarse climatic classification of a wilaya.
type Zone string

const (
	ZoneNorth     Zone = "nord"
	ZoneHighlands Zone = "hauts_plateaux"
	ZoneSouth     Zone = "sud"
)

// Road networks wind; great-circle distances are scaled up to approximate
// driven kilometers. Rail alignments wind slightly more.
const (
	roadFactor = 1.30
	railFactor = 1.35
)

// Wilaya is one row of the static reference dataset.
type Wilaya struct {
	Name         string  `yaml:"name" json:"name"`
	Lat          float64 `yaml:"lat" json:"latitude"`
	Lon          float64 `yaml:"lon" json:"longitude"`
	Population   int     `yaml:"population" json:"population"`
	DemandTonnes float64 `yaml:"demand" json:"demandTonnes"`
	Zone         Zone    `yaml:"zone" json:"zone"`
	Rail         bool    `yaml:"rail" json:"railAccess"`
}

//go:embed wilayas.yaml
var rawDataset []byte

type datasetFile struct {
	Wilayas []Wilaya `yaml:"wilayas"`
}

// Dataset provides location, zone, distance and rail lookups over the
// embedded wilaya table. It is read-only after Load.
type Dataset struct {
	byName map[string]Wilaya
	names  []string
}

// Load parses the embedded dataset.
func Load() (*Dataset, error) {
	var f datasetFile
	if err := yaml.Unmarshal(rawDataset, &f); err != nil {
		return nil, fmt.Errorf("parse wilaya dataset: %w", err)
	}
	if len(f.Wilayas) == 0 {
		return nil, fmt.Errorf("wilaya dataset is empty")
	}
	d := &Dataset{byName: make(map[string]Wilaya, len(f.Wilayas))}
	for _, w := range f.Wilayas {
		if _, dup := d.byName[w.Name]; dup {
			return nil, fmt.Errorf("duplicate wilaya %q", w.Name)
		}
		d.byName[w.Name] = w
		d.names = append(d.names, w.Name)
	}
	sort.Strings(d.names)
	return d, nil
}

// MustLoad is Load for composition roots and tests.
func MustLoad() *Dataset {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns a wilaya by name.
func (d *Dataset) Lookup(name string) (Wilaya, bool) {
	w, ok := d.byName[name]
	return w, ok
}

// Names returns all wilaya names, sorted.
func (d *Dataset) Names() []string {
	return append([]string(nil), d.names...)
}

// All returns every wilaya in name order.
func (d *Dataset) All() []Wilaya {
	out := make([]Wilaya, 0, len(d.names))
	for _, n := range d.names {
		out = append(out, d.byName[n])
	}
	return out
}

// Distance returns the approximate road distance in km between two wilayas.
func (d *Dataset) Distance(a, b string) (float64, error) {
	wa, ok := d.byName[a]
	if !ok {
		return 0, fmt.Errorf("unknown wilaya %q", a)
	}
	wb, ok := d.byName[b]
	if !ok {
		return 0, fmt.Errorf("unknown wilaya %q", b)
	}
	return Haversine(wa.Lat, wa.Lon, wb.Lat, wb.Lon) * roadFactor, nil
}

// RailDistance returns the approximate rail distance in km, or false when no
// rail link exists between the two wilayas.
func (d *Dataset) RailDistance(a, b string) (float64, bool) {
	wa, oka := d.byName[a]
	wb, okb := d.byName[b]
	if !oka || !okb || !wa.Rail || !wb.Rail {
		return 0, false
	}
	return Haversine(wa.Lat, wa.Lon, wb.Lat, wb.Lon) * railFactor, true
}

// Zone returns a wilaya's climatic zone. Unknown names map to the north,
// matching the historical behavior of the rule engine.
func (d *Dataset) Zone(name string) Zone {
	if w, ok := d.byName[name]; ok {
		return w.Zone
	}
	return ZoneNorth
}

// HasRailAccess reports whether a wilaya is connected to the rail network.
func (d *Dataset) HasRailAccess(name string) bool {
	w, ok := d.byName[name]
	return ok && w.Rail
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
