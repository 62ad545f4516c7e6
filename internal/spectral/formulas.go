package spectral

import "math"

// ratio guards every division: a zero denominator means "no data" and
// yields NaN rather than an infinity.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// normDiff is the normalized difference (a-b)/(a+b).
func normDiff(a, b float64) float64 {
	return ratio(a-b, a+b)
}

func savi(s Sample, l float64) float64 {
	return ratio(s[NIR]-s[Red], s[NIR]+s[Red]+l) * (1 + l)
}

func nbr(s Sample) float64 {
	return normDiff(s[NIR], s[SWIR2])
}

var formulas = []Formula{
	// vegetation
	{
		Name: NDVI, Category: CategoryVegetation, Kind: KindSample,
		Description: "Normalized Difference Vegetation Index",
		Bands:       []Band{NIR, Red},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[NIR], s[Red]) },
	},
	{
		Name: EVI, Category: CategoryVegetation, Kind: KindSample,
		Description: "Enhanced Vegetation Index",
		Bands:       []Band{NIR, Red, Blue},
		eval: func(s Sample, _ Params) float64 {
			return 2.5 * ratio(s[NIR]-s[Red], s[NIR]+6*s[Red]-7.5*s[Blue]+1)
		},
	},
	{
		Name: RENDVI, Category: CategoryVegetation, Kind: KindSample,
		Description: "Red Edge Normalized Difference Vegetation Index",
		Bands:       []Band{NIR, RedEdge},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[NIR], s[RedEdge]) },
	},
	{
		Name: SAVI, Category: CategoryVegetation, Kind: KindSample,
		Description: "Soil Adjusted Vegetation Index",
		Bands:       []Band{NIR, Red},
		eval:        func(s Sample, p Params) float64 { return savi(s, p.SoilFactor) },
	},
	{
		Name: OSAVI, Category: CategoryVegetation, Kind: KindSample,
		Description: "Optimized Soil Adjusted Vegetation Index",
		Bands:       []Band{NIR, Red},
		eval:        func(s Sample, _ Params) float64 { return ratio(s[NIR]-s[Red], s[NIR]+s[Red]+0.16) },
	},
	{
		Name: GNDVI, Category: CategoryVegetation, Kind: KindSample,
		Description: "Green Normalized Difference Vegetation Index",
		Bands:       []Band{NIR, Green},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[NIR], s[Green]) },
	},

	// water and moisture
	{
		Name: NDWI, Category: CategoryWater, Kind: KindSample,
		Description: "Normalized Difference Water Index",
		Bands:       []Band{Green, NIR},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[Green], s[NIR]) },
	},
	{
		Name: MNDWI, Category: CategoryWater, Kind: KindSample,
		Description: "Modified Normalized Difference Water Index",
		Bands:       []Band{Green, SWIR1},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[Green], s[SWIR1]) },
	},
	{
		Name: NDMI, Category: CategoryWater, Kind: KindSample,
		Description: "Normalized Difference Moisture Index",
		Bands:       []Band{NIR, SWIR1},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[NIR], s[SWIR1]) },
	},
	{
		Name: NMDI, Category: CategoryWater, Kind: KindSample,
		Description: "Normalized Multi-band Drought Index",
		Bands:       []Band{NIR, SWIR1, SWIR2},
		eval: func(s Sample, _ Params) float64 {
			d := s[SWIR1] - s[SWIR2]
			return ratio(s[NIR]-d, s[NIR]+d)
		},
	},
	{
		Name: MSI, Category: CategoryWater, Kind: KindSample,
		Description: "Moisture Stress Index",
		Bands:       []Band{SWIR1, NIR},
		eval:        func(s Sample, _ Params) float64 { return ratio(s[SWIR1], s[NIR]) },
	},

	// soil
	{
		Name: BSI, Category: CategorySoil, Kind: KindSample,
		Description: "Bare Soil Index",
		Bands:       []Band{SWIR1, Red, NIR, Blue},
		eval: func(s Sample, _ Params) float64 {
			return normDiff(s[SWIR1]+s[Red], s[NIR]+s[Blue])
		},
	},
	{
		Name: NDTI, Category: CategorySoil, Kind: KindSample,
		Description: "Normalized Difference Tillage Index",
		Bands:       []Band{SWIR1, SWIR2},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[SWIR1], s[SWIR2]) },
	},
	{
		Name: PSRI, Category: CategorySoil, Kind: KindSample,
		Description: "Plant Senescence Reflectance Index",
		Bands:       []Band{Red, Green, NIR},
		eval:        func(s Sample, _ Params) float64 { return ratio(s[Red]-s[Green], s[NIR]) },
	},
	{
		Name: CRI, Category: CategorySoil, Kind: KindSample,
		Description: "Carotenoid Reflectance Index",
		Bands:       []Band{Green, RedEdge},
		eval: func(s Sample, _ Params) float64 {
			return ratio(1, s[Green]) - ratio(1, s[RedEdge])
		},
	},
	{
		Name: CMR, Category: CategorySoil, Kind: KindSample,
		Description: "Clay Minerals Ratio",
		Bands:       []Band{SWIR1, SWIR2},
		eval:        func(s Sample, _ Params) float64 { return ratio(s[SWIR1], s[SWIR2]) },
	},
	{
		// Broadband form over B11/B12; the narrowband index needs 2.0/2.1/2.2 um.
		Name: CAI, Category: CategorySoil, Kind: KindSample,
		Description: "Cellulose Absorption Index",
		Bands:       []Band{SWIR1, SWIR2},
		eval: func(s Sample, _ Params) float64 {
			return 0.5*(s[SWIR1]+s[SWIR2]) - s[SWIR2]
		},
	},
	{
		Name: IOR, Category: CategorySoil, Kind: KindSample,
		Description: "Iron Oxide Ratio",
		Bands:       []Band{Red, Blue},
		eval:        func(s Sample, _ Params) float64 { return ratio(s[Red], s[Blue]) },
	},

	// urban
	{
		Name: NDBI, Category: CategoryUrban, Kind: KindSample,
		Description: "Normalized Difference Built-up Index",
		Bands:       []Band{SWIR1, NIR},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[SWIR1], s[NIR]) },
	},
	{
		Name: IBI, Category: CategoryUrban, Kind: KindSample,
		Description: "Index-based Built-up Index",
		Bands:       []Band{SWIR1, NIR, Red, Green},
		eval: func(s Sample, _ Params) float64 {
			built := ratio(2*s[SWIR1], s[SWIR1]+s[NIR])
			other := ratio(s[NIR], s[NIR]+s[Red]) + ratio(s[Green], s[Green]+s[SWIR1])
			return normDiff(built, other)
		},
	},
	{
		Name: BAEI, Category: CategoryUrban, Kind: KindSample,
		Description: "Built-up Area Extraction Index",
		Bands:       []Band{Red, Green, SWIR1},
		eval: func(s Sample, _ Params) float64 {
			return ratio(s[Red]+0.3, s[Green]+s[SWIR1])
		},
	},
	{
		// Thermal-free form; the published index divides by sqrt(SWIR+TIR).
		Name: EBBI, Category: CategoryUrban, Kind: KindSample,
		Description: "Enhanced Built-up and Bareness Index",
		Bands:       []Band{NIR, Red, Green, SWIR1},
		eval: func(s Sample, _ Params) float64 {
			return ratio(s[NIR]-s[Red], 10*math.Sqrt(s[NIR]+s[Red]+s[Green]+s[SWIR1]))
		},
	},

	// hazard
	{
		Name: NBR, Category: CategoryHazard, Kind: KindSample,
		Description: "Normalized Burn Ratio",
		Bands:       []Band{NIR, SWIR2},
		eval:        func(s Sample, _ Params) float64 { return nbr(s) },
	},
	{
		Name: DNBRName, Category: CategoryHazard, Kind: KindBitemporal,
		Description: "Differenced Normalized Burn Ratio",
		Bands:       []Band{NIR, SWIR2},
	},
	{
		Name: BAI, Category: CategoryHazard, Kind: KindSample,
		Description: "Burned Area Index",
		Bands:       []Band{Red, NIR},
		eval: func(s Sample, _ Params) float64 {
			dr := 0.1 - s[Red]
			dn := 0.06 - s[NIR]
			return ratio(1, dr*dr+dn*dn)
		},
	},
	{
		Name: NDDIName, Category: CategoryHazard, Kind: KindComposite,
		Description: "Normalized Difference Drought Index",
		Bands:       []Band{NIR, Red, Green},
	},

	// nutrient and structure
	{
		Name: CIRedEdge, Category: CategoryNutrient, Kind: KindSample,
		Description: "Chlorophyll Index Red Edge",
		Bands:       []Band{NIR, RedEdge},
		eval:        func(s Sample, _ Params) float64 { return ratio(s[NIR], s[RedEdge]) - 1 },
	},
	{
		Name: TGI, Category: CategoryNutrient, Kind: KindSample,
		Description: "Triangular Greenness Index",
		Bands:       []Band{Green, Red, Blue},
		eval: func(s Sample, _ Params) float64 {
			return s[Green] - 0.39*s[Red] - 0.61*s[Blue]
		},
	},
	{
		Name: SI, Category: CategoryNutrient, Kind: KindSample,
		Description: "Shadow Index",
		Bands:       []Band{Blue, Red},
		eval:        func(s Sample, _ Params) float64 { return math.Sqrt(s[Blue] * s[Red]) },
	},
	{
		Name: NDSI, Category: CategoryNutrient, Kind: KindSample,
		Description: "Normalized Difference Salinity Index",
		Bands:       []Band{Red, NIR},
		eval:        func(s Sample, _ Params) float64 { return normDiff(s[Red], s[NIR]) },
	},
	{
		Name: MSR, Category: CategoryNutrient, Kind: KindSample,
		Description: "Modified Simple Ratio",
		Bands:       []Band{NIR, Red},
		eval: func(s Sample, _ Params) float64 {
			sr := ratio(s[NIR], s[Red])
			return ratio(sr-1, math.Sqrt(sr+1))
		},
	},
}

// DNBR is the pre-event NBR minus the post-event NBR.
func DNBR(pre, post Sample) (float64, error) {
	required := registry[DNBRName].Bands
	if err := pre.require(DNBRName, required); err != nil {
		return 0, err
	}
	if err := post.require(DNBRName, required); err != nil {
		return 0, err
	}
	return nbr(pre) - nbr(post), nil
}

// NDDI combines an NDVI and an NDWI value.
func NDDI(ndvi, ndwi float64) float64 {
	return normDiff(ndvi, ndwi)
}

// NDDIFromSample computes NDVI and NDWI from s and combines them.
func NDDIFromSample(s Sample) (float64, error) {
	if err := s.require(NDDIName, registry[NDDIName].Bands); err != nil {
		return 0, err
	}
	return NDDI(normDiff(s[NIR], s[Red]), normDiff(s[Green], s[NIR])), nil
}
