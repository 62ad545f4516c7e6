package geometry

// IsSimple reports whether no two non-adjacent edges of b touch. The
// measurements never call it: a self-intersecting ring still gets a
// shoelace area, which is then meaningless.
func IsSimple(b Boundary) bool {
	ring := dedupe(b)
	n := len(ring)
	if n < minVertices {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // shares vertex 0
			}
			if segmentsIntersect(a1, a2, ring[j], ring[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}

// dedupe drops consecutive repeated vertices, including a repeated closing
// vertex, so that zero-length edges do not count as touching neighbours.
func dedupe(b Boundary) Boundary {
	out := make(Boundary, 0, len(b))
	for _, c := range b {
		if len(out) > 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// orientation of (p, q, r) in the lng/lat plane: >0 counter-clockwise,
// <0 clockwise, 0 collinear.
func orientation(p, q, r Coordinate) float64 {
	return (q.Lng-p.Lng)*(r.Lat-p.Lat) - (q.Lat-p.Lat)*(r.Lng-p.Lng)
}

func onSegment(p, q, r Coordinate) bool {
	return min(p.Lng, r.Lng) <= q.Lng && q.Lng <= max(p.Lng, r.Lng) &&
		min(p.Lat, r.Lat) <= q.Lat && q.Lat <= max(p.Lat, r.Lat)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func segmentsIntersect(p1, p2, q1, q2 Coordinate) bool {
	o1 := sign(orientation(p1, p2, q1))
	o2 := sign(orientation(p1, p2, q2))
	o3 := sign(orientation(q1, q2, p1))
	o4 := sign(orientation(q1, q2, p2))

	if o1 != o2 && o3 != o4 {
		return true
	}
	switch {
	case o1 == 0 && onSegment(p1, q1, p2):
		return true
	case o2 == 0 && onSegment(p1, q2, p2):
		return true
	case o3 == 0 && onSegment(q1, p1, q2):
		return true
	case o4 == 0 && onSegment(q1, p2, q2):
		return true
	}
	return false
}
