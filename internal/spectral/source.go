package spectral

import "strings"

// Source describes a satellite product the scene feed may deliver.
type Source struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Resolution string   `json:"resolution"`
	Revisit    string   `json:"revisit"`
	Bands      []string `json:"bands"`
	Indices    []Name   `json:"indices"`
}

var sources = []Source{
	{
		ID:         "sentinel2",
		Name:       "Sentinel-2",
		Resolution: "10-20m",
		Revisit:    "5 days",
		Bands:      []string{"B2", "B3", "B4", "B8", "B11", "B12"},
		Indices:    []Name{NDVI, EVI, NDWI, NDBI, NBR},
	},
	{
		ID:         "landsat8",
		Name:       "Landsat 8",
		Resolution: "30m",
		Revisit:    "16 days",
		Bands:      []string{"B2", "B3", "B4", "B5", "B6", "B7"},
		Indices:    []Name{NDVI, EVI, NDWI, NDBI, NBR},
	},
	{
		ID:         "modis",
		Name:       "MODIS",
		Resolution: "250m-1km",
		Revisit:    "Daily",
		Bands:      []string{"B1", "B2", "B3", "B4", "B5", "B6", "B7"},
		Indices:    []Name{NDVI, EVI, NDWI, NDBI},
	},
}

// Sources returns the supported satellite products.
func Sources() []Source {
	out := make([]Source, len(sources))
	copy(out, sources)
	return out
}

// SourceByID looks up a product by id, ignoring case.
func SourceByID(id string) (Source, bool) {
	for _, s := range sources {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return Source{}, false
}
