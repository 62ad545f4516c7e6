package geometry

import "fmt"

// InsufficientPointsError is returned for rings with fewer than three vertices.
type InsufficientPointsError struct {
	Got int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("boundary needs at least %d vertices, got %d", minVertices, e.Got)
}

// InvalidCoordinateError is returned for a vertex outside the lat/lng ranges.
type InvalidCoordinateError struct {
	Index      int
	Coordinate Coordinate
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("vertex %d out of range: lat=%v lng=%v", e.Index, e.Coordinate.Lat, e.Coordinate.Lng)
}
