package spectral

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestCompute_NDVIMatchesFormula(t *testing.T) {
	cases := []struct {
		nir, red float64
	}{
		{0.5, 0.1},
		{0.8, 0.05},
		{0.1, 0.3},
		{1.2, -0.1}, // values are not clamped
		{0.25, 0.25},
	}

	for _, tc := range cases {
		got, err := Compute(NDVI, Sample{NIR: tc.nir, Red: tc.red})
		if err != nil {
			t.Fatalf("Compute(NDVI) failed: %v", err)
		}
		want := (tc.nir - tc.red) / (tc.nir + tc.red)
		if !approx(got, want) {
			t.Errorf("NDVI(nir=%v, red=%v): expected %v, got %v", tc.nir, tc.red, want, got)
		}
	}
}

func TestCompute_KnownValues(t *testing.T) {
	s := Sample{
		Red: 0.1, Green: 0.2, Blue: 0.05, NIR: 0.5,
		RedEdge: 0.25, SWIR1: 0.3, SWIR2: 0.15,
	}

	cases := []struct {
		name Name
		want float64
	}{
		{EVI, 2.5 * 0.4 / (0.5 + 0.6 - 0.375 + 1)},
		{SAVI, (0.4 / 1.1) * 1.5},
		{RENDVI, 0.25 / 0.75},
		{NDWI, -0.3 / 0.7},
		{MNDWI, -0.1 / 0.5},
		{NDMI, 0.2 / 0.8},
		{NMDI, (0.5 - 0.15) / (0.5 + 0.15)},
		{BSI, (0.4 - 0.55) / (0.4 + 0.55)},
		{NDTI, 0.15 / 0.45},
		{PSRI, -0.1 / 0.5},
		{CRI, 1/0.2 - 1/0.25},
		{NDBI, -0.2 / 0.8},
		{NBR, 0.35 / 0.65},
		{CIRedEdge, 1},
		{TGI, 0.2 - 0.039 - 0.0305},
		{SI, math.Sqrt(0.005)},
		{NDSI, -0.4 / 0.6},
		{GNDVI, 0.3 / 0.7},
		{MSI, 0.6},
		{CMR, 2},
		{IOR, 2},
		{OSAVI, 0.4 / 0.76},
		{CAI, 0.5*0.45 - 0.15},
		{IBI, (0.75 - (0.5/0.6 + 0.4)) / (0.75 + (0.5/0.6 + 0.4))},
		{BAEI, 0.4 / 0.5},
		{EBBI, 0.4 / (10 * math.Sqrt(1.1))},
		{BAI, 1 / (0.44 * 0.44)},
		{MSR, 4 / math.Sqrt(6)},
	}

	for _, tc := range cases {
		got, err := Compute(tc.name, s)
		if err != nil {
			t.Errorf("Compute(%s) failed: %v", tc.name, err)
			continue
		}
		if !approx(got, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestCompute_MissingBand(t *testing.T) {
	for _, f := range Catalog() {
		if f.Kind != KindSample {
			continue
		}
		_, err := Compute(f.Name, Sample{})
		var mbe *MissingBandError
		if !errors.As(err, &mbe) {
			t.Errorf("%s: expected MissingBandError, got %v", f.Name, err)
			continue
		}
		if len(mbe.Bands) != len(f.Bands) {
			t.Errorf("%s: expected %d missing bands, got %v", f.Name, len(f.Bands), mbe.Bands)
		}
	}

	_, err := Compute(NDVI, Sample{Red: 0.1})
	var mbe *MissingBandError
	if !errors.As(err, &mbe) {
		t.Fatalf("expected MissingBandError, got %v", err)
	}
	if len(mbe.Bands) != 1 || mbe.Bands[0] != NIR {
		t.Errorf("expected missing [NIR], got %v", mbe.Bands)
	}
	if mbe.Index != NDVI {
		t.Errorf("expected index NDVI, got %s", mbe.Index)
	}
}

func TestCompute_ZeroDenominatorIsNaN(t *testing.T) {
	got, err := Compute(NDVI, Sample{NIR: 0, Red: 0})
	if err != nil {
		t.Fatalf("zero denominator should not be an error: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("expected NaN, got %v", got)
	}

	got, err = Compute(PSRI, Sample{Red: 0.2, Green: 0.1, NIR: 0})
	if err != nil {
		t.Fatalf("zero denominator should not be an error: %v", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("expected NaN for non-zero numerator over zero, got %v", got)
	}
}

func TestCompute_UnknownIndex(t *testing.T) {
	_, err := Compute(Name("XYZ"), Sample{})
	var uie *UnknownIndexError
	if !errors.As(err, &uie) {
		t.Fatalf("expected UnknownIndexError, got %v", err)
	}
}

func TestCompute_NonSampleForms(t *testing.T) {
	s := Sample{NIR: 0.5, Red: 0.1, Green: 0.2, SWIR2: 0.1}
	for _, n := range []Name{DNBRName, NDDIName} {
		_, err := Compute(n, s)
		var fe *FormError
		if !errors.As(err, &fe) {
			t.Errorf("%s: expected FormError, got %v", n, err)
		}
	}
}

func TestSAVI_SoilFactor(t *testing.T) {
	s := Sample{NIR: 0.6, Red: 0.2}

	got, err := ComputeWithParams(SAVI, s, Params{SoilFactor: 0})
	if err != nil {
		t.Fatalf("ComputeWithParams failed: %v", err)
	}
	ndvi, _ := Compute(NDVI, s)
	if !approx(got, ndvi) {
		t.Errorf("SAVI with L=0 should equal NDVI %v, got %v", ndvi, got)
	}

	got, err = ComputeWithParams(SAVI, s, Params{SoilFactor: 1})
	if err != nil {
		t.Fatalf("ComputeWithParams failed: %v", err)
	}
	if want := (0.4 / 1.8) * 2; !approx(got, want) {
		t.Errorf("SAVI with L=1: expected %v, got %v", want, got)
	}
}

func TestDNBR(t *testing.T) {
	pre := Sample{NIR: 0.5, SWIR2: 0.1}
	post := Sample{NIR: 0.3, SWIR2: 0.3}

	got, err := DNBR(pre, post)
	if err != nil {
		t.Fatalf("DNBR failed: %v", err)
	}
	if want := 0.4 / 0.6; !approx(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	_, err = DNBR(pre, Sample{NIR: 0.3})
	var mbe *MissingBandError
	if !errors.As(err, &mbe) {
		t.Fatalf("expected MissingBandError for post sample, got %v", err)
	}
	if mbe.Bands[0] != SWIR2 {
		t.Errorf("expected missing SWIR2, got %v", mbe.Bands)
	}
}

func TestNDDI(t *testing.T) {
	if got := NDDI(0.6, 0.2); !approx(got, 0.5) {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := NDDI(0.2, -0.2); !math.IsNaN(got) {
		t.Errorf("expected NaN for opposite values, got %v", got)
	}

	s := Sample{NIR: 0.5, Red: 0.1, Green: 0.2}
	got, err := NDDIFromSample(s)
	if err != nil {
		t.Fatalf("NDDIFromSample failed: %v", err)
	}
	ndvi := 0.4 / 0.6
	ndwi := -0.3 / 0.7
	if want := (ndvi - ndwi) / (ndvi + ndwi); !approx(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComputeMany(t *testing.T) {
	s := Sample{NIR: 0.5, Red: 0.1, Green: 0.2}
	values, errs := ComputeMany([]Name{NDVI, NDDIName, DNBRName, BSI}, s, DefaultParams())

	if len(values) != 2 {
		t.Errorf("expected 2 values, got %v", values)
	}
	if _, ok := values[NDDIName]; !ok {
		t.Error("expected NDDI to be composed from the sample")
	}

	var fe *FormError
	if !errors.As(errs[DNBRName], &fe) {
		t.Errorf("expected FormError for dNBR, got %v", errs[DNBRName])
	}
	var mbe *MissingBandError
	if !errors.As(errs[BSI], &mbe) {
		t.Errorf("expected MissingBandError for BSI, got %v", errs[BSI])
	}
}

func TestRegistry_EveryNameHasFormula(t *testing.T) {
	all := Names()
	if len(all) != 31 {
		t.Errorf("expected 31 indices, got %d", len(all))
	}

	valid := map[Category]bool{
		CategoryVegetation: true, CategoryWater: true, CategorySoil: true,
		CategoryUrban: true, CategoryHazard: true, CategoryNutrient: true,
	}
	for _, n := range all {
		f, ok := Lookup(n)
		if !ok {
			t.Errorf("%s has no registry entry", n)
			continue
		}
		if !valid[f.Category] {
			t.Errorf("%s has invalid category %q", n, f.Category)
		}
		if f.Kind == KindSample && f.eval == nil {
			t.Errorf("%s is a sample formula without an implementation", n)
		}
		if len(f.Bands) == 0 {
			t.Errorf("%s declares no bands", n)
		}
	}
}

func TestParseName(t *testing.T) {
	cases := map[string]Name{
		"ndvi":       NDVI,
		" EVI ":      EVI,
		"cired-edge": CIRedEdge,
		"dnbr":       DNBRName,
	}
	for in, want := range cases {
		got, err := ParseName(in)
		if err != nil {
			t.Errorf("ParseName(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseName(%q): expected %s, got %s", in, want, got)
		}
	}

	if _, err := ParseName("NOPE"); err == nil {
		t.Error("expected error for unknown name")
	}

	list, err := ParseNames("NDVI, evi,,NBR")
	if err != nil {
		t.Fatalf("ParseNames failed: %v", err)
	}
	if len(list) != 3 || list[2] != NBR {
		t.Errorf("unexpected ParseNames result: %v", list)
	}
}

func TestByCategory(t *testing.T) {
	veg := ByCategory(CategoryVegetation)
	if len(veg) != 6 {
		t.Errorf("expected 6 vegetation indices, got %v", veg)
	}
	if CategoryOf(NBR) != CategoryHazard {
		t.Errorf("expected NBR to be hazard, got %s", CategoryOf(NBR))
	}
}

func TestSources(t *testing.T) {
	s, ok := SourceByID("Sentinel2")
	if !ok {
		t.Fatal("expected sentinel2 to be known")
	}
	for _, n := range s.Indices {
		if _, ok := Lookup(n); !ok {
			t.Errorf("source %s lists unknown index %s", s.ID, n)
		}
	}
	if _, ok := SourceByID("spot"); ok {
		t.Error("expected spot to be unknown")
	}
}

func TestParseSample(t *testing.T) {
	s, err := ParseSample(map[string]float64{"nir": 0.5, "RED": 0.1, "SWIR1": 0.2})
	if err != nil {
		t.Fatalf("ParseSample failed: %v", err)
	}
	if s[NIR] != 0.5 || s[Red] != 0.1 || s[SWIR1] != 0.2 {
		t.Errorf("unexpected sample: %v", s)
	}

	if _, err := ParseSample(map[string]float64{"thermal": 0.3}); err == nil {
		t.Error("expected error for unknown band")
	}
	if _, err := ParseSample(map[string]float64{"NIR": math.Inf(1)}); err == nil {
		t.Error("expected error for non-finite value")
	}
}
