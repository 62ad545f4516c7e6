package geometry

import "math"

const (
	earthRadiusKm     = 6371.0
	metersPerDegree   = 111320.0
	squareMetersPerHa = 10000.0
)

// BoundingBox is the lat/lng extent of a boundary.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Dimensions is the bounding box size in degrees.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Summary is the derived geometry of a farm boundary.
type Summary struct {
	AreaHectares float64     `json:"areaHectares"`
	PerimeterKm  float64     `json:"perimeterKilometers"`
	Center       Coordinate  `json:"center"`
	BoundingBox  BoundingBox `json:"boundingBox"`
	Dimensions   Dimensions  `json:"dimensionsDegrees"`
}

// SignedAreaDegrees applies the shoelace formula directly to the (lat, lng)
// pairs. The sign follows the winding order.
func SignedAreaDegrees(b Boundary) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	var sum float64
	n := len(b)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += b[i].Lng*b[j].Lat - b[j].Lng*b[i].Lat
	}
	return sum / 2, nil
}

// AreaHectares converts the shoelace area to hectares with a flat-earth
// scale taken at the first vertex's latitude. Accurate for field-sized
// rings; error grows with the ring's latitude span.
func AreaHectares(b Boundary) (float64, error) {
	deg2, err := SignedAreaDegrees(b)
	if err != nil {
		return 0, err
	}
	latRad := toRad(b[0].Lat)
	m2 := math.Abs(deg2) * metersPerDegree * metersPerDegree * math.Cos(latRad)
	return m2 / squareMetersPerHa, nil
}

// PerimeterKm sums great-circle edge lengths including the closing edge.
func PerimeterKm(b Boundary) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	var total float64
	n := len(b)
	for i := 0; i < n; i++ {
		total += HaversineKm(b[i], b[(i+1)%n])
	}
	return total, nil
}

// HaversineKm is the great-circle distance on a 6371 km sphere.
func HaversineKm(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Centroid is the vertex mean, not the area-weighted centroid. Close enough
// for small convex fields.
func Centroid(b Boundary) (Coordinate, error) {
	if err := b.Validate(); err != nil {
		return Coordinate{}, err
	}
	var lat, lng float64
	for _, c := range b {
		lat += c.Lat
		lng += c.Lng
	}
	n := float64(len(b))
	return Coordinate{Lat: lat / n, Lng: lng / n}, nil
}

// Bounds returns the bounding box of b.
func Bounds(b Boundary) (BoundingBox, error) {
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	bound := b.Ring().Bound()
	return BoundingBox{
		MinLat: bound.Bottom(),
		MaxLat: bound.Top(),
		MinLng: bound.Left(),
		MaxLng: bound.Right(),
	}, nil
}

// Dimensions returns the box width (lng span) and height (lat span).
func (bb BoundingBox) Dimensions() Dimensions {
	return Dimensions{
		Width:  bb.MaxLng - bb.MinLng,
		Height: bb.MaxLat - bb.MinLat,
	}
}

// Summarize computes every measurement of b.
func Summarize(b Boundary) (Summary, error) {
	area, err := AreaHectares(b)
	if err != nil {
		return Summary{}, err
	}
	perimeter, err := PerimeterKm(b)
	if err != nil {
		return Summary{}, err
	}
	center, err := Centroid(b)
	if err != nil {
		return Summary{}, err
	}
	bbox, err := Bounds(b)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		AreaHectares: area,
		PerimeterKm:  perimeter,
		Center:       center,
		BoundingBox:  bbox,
		Dimensions:   bbox.Dimensions(),
	}, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
