package spectral

import (
	"fmt"
	"strings"
)

// Name identifies a spectral index.
type Name string

const (
	NDVI      Name = "NDVI"
	EVI       Name = "EVI"
	RENDVI    Name = "RENDVI"
	SAVI      Name = "SAVI"
	OSAVI     Name = "OSAVI"
	GNDVI     Name = "GNDVI"
	PSRI      Name = "PSRI"
	CRI       Name = "CRI"
	NDWI      Name = "NDWI"
	MNDWI     Name = "MNDWI"
	NDMI      Name = "NDMI"
	NMDI      Name = "NMDI"
	MSI       Name = "MSI"
	NDDIName  Name = "NDDI"
	BSI       Name = "BSI"
	NDTI      Name = "NDTI"
	CMR       Name = "CMR"
	CAI       Name = "CAI"
	IOR       Name = "IOR"
	NDBI      Name = "NDBI"
	IBI       Name = "IBI"
	BAEI      Name = "BAEI"
	EBBI      Name = "EBBI"
	NBR       Name = "NBR"
	DNBRName  Name = "dNBR"
	BAI       Name = "BAI"
	CIRedEdge Name = "CIred-edge"
	TGI       Name = "TGI"
	SI        Name = "SI"
	NDSI      Name = "NDSI"
	MSR       Name = "MSR"
)

// Category groups indices by what they are used to observe.
type Category string

const (
	CategoryVegetation Category = "vegetation"
	CategoryWater      Category = "water"
	CategorySoil       Category = "soil"
	CategoryUrban      Category = "urban"
	CategoryHazard     Category = "hazard"
	CategoryNutrient   Category = "nutrient"
)

// Kind describes the inputs a formula takes.
type Kind string

const (
	// KindSample formulas map one Sample to one value.
	KindSample Kind = "sample"
	// KindComposite formulas combine previously computed index values.
	KindComposite Kind = "composite"
	// KindBitemporal formulas difference two samples of the same place.
	KindBitemporal Kind = "bitemporal"
)

// Formula is a registry entry.
type Formula struct {
	Name        Name     `json:"name"`
	Category    Category `json:"category"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description"`
	Bands       []Band   `json:"bands"`

	eval func(s Sample, p Params) float64
}

// Params carries the tunable constants of the formulas.
type Params struct {
	// SoilFactor is the SAVI canopy background adjustment L.
	SoilFactor float64
}

const DefaultSoilFactor = 0.5

func DefaultParams() Params {
	return Params{SoilFactor: DefaultSoilFactor}
}

// names is the declaration order used by Names and the catalog endpoint.
var names = []Name{
	NDVI, EVI, RENDVI, SAVI, OSAVI, GNDVI,
	NDWI, MNDWI, NDMI, NMDI, MSI,
	BSI, NDTI, PSRI, CRI, CMR, CAI, IOR,
	NDBI, IBI, BAEI, EBBI,
	NBR, DNBRName, BAI, NDDIName,
	CIRedEdge, TGI, SI, NDSI, MSR,
}

var registry = make(map[Name]Formula, len(names))

func init() {
	for _, f := range formulas {
		if _, dup := registry[f.Name]; dup {
			panic(fmt.Sprintf("spectral: duplicate formula for %s", f.Name))
		}
		registry[f.Name] = f
	}
	for _, n := range names {
		if _, ok := registry[n]; !ok {
			panic(fmt.Sprintf("spectral: no formula registered for %s", n))
		}
	}
	if len(registry) != len(names) {
		panic("spectral: registry holds formulas for undeclared names")
	}
}

// Names returns every known index name.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// Lookup returns the registry entry for name.
func Lookup(name Name) (Formula, bool) {
	f, ok := registry[name]
	return f, ok
}

// Catalog returns every registry entry in declaration order.
func Catalog() []Formula {
	out := make([]Formula, 0, len(names))
	for _, n := range names {
		out = append(out, registry[n])
	}
	return out
}

// ByCategory returns the names tagged with c in declaration order.
func ByCategory(c Category) []Name {
	var out []Name
	for _, n := range names {
		if registry[n].Category == c {
			out = append(out, n)
		}
	}
	return out
}

// ParseName resolves s to an index name, ignoring case.
func ParseName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	for _, n := range names {
		if strings.EqualFold(string(n), s) {
			return n, nil
		}
	}
	return "", &UnknownIndexError{Name: Name(s)}
}

// ParseNames parses a comma separated list such as "NDVI,evi".
func ParseNames(list string) ([]Name, error) {
	var out []Name
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := ParseName(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// CategoryOf returns the category of name, or "" for unknown names.
func CategoryOf(name Name) Category {
	return registry[name].Category
}

// Compute evaluates a single-sample index with the default parameters.
func Compute(name Name, s Sample) (float64, error) {
	return ComputeWithParams(name, s, DefaultParams())
}

// ComputeWithParams evaluates a single-sample index. A zero denominator
// yields NaN; a band absent from s yields a *MissingBandError.
func ComputeWithParams(name Name, s Sample, p Params) (float64, error) {
	f, ok := registry[name]
	if !ok {
		return 0, &UnknownIndexError{Name: name}
	}
	if f.Kind != KindSample {
		return 0, &FormError{Index: name, Kind: f.Kind}
	}
	if err := s.require(name, f.Bands); err != nil {
		return 0, err
	}
	return f.eval(s, p), nil
}

// ComputeMany evaluates every name against s. Names that cannot be
// computed from a single sample are reported in errs, except NDDI which is
// composed from the sample's NDVI and NDWI.
func ComputeMany(list []Name, s Sample, p Params) (values map[Name]float64, errs map[Name]error) {
	values = make(map[Name]float64, len(list))
	errs = make(map[Name]error)
	for _, n := range list {
		var (
			v   float64
			err error
		)
		if n == NDDIName {
			v, err = NDDIFromSample(s)
		} else {
			v, err = ComputeWithParams(n, s, p)
		}
		if err != nil {
			errs[n] = err
			continue
		}
		values[n] = v
	}
	return values, errs
}
