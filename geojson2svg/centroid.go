package geojson2svg

import "math"

// ringArea returns the signed area of the ring, positive for counter
// clockwise winding.
func ringArea(ring [][]float64) float64 {
	s := 0.0
	for i := 0; i < len(ring)-1; i++ {
		s += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return 0.5 * s
}

// Centroid returns the centroid of a polygon's dominant ring, the one
// enclosing the most area regardless of winding. It applies the planar
// polygon centroid formula, so results degrade for unprojected polygons
// spanning large arcs of the globe.
func Centroid(poly [][][]float64) []float64 {
	var ring [][]float64
	area := 0.0
	for _, candidate := range poly {
		if a := ringArea(candidate); math.Abs(a) >= math.Abs(area) {
			ring, area = candidate, a
		}
	}

	c := []float64{0, 0}
	for i := 0; i < len(ring)-1; i++ {
		x0, y0 := ring[i][0], ring[i][1]
		x1, y1 := ring[i+1][0], ring[i+1][1]
		cross := x0*y1 - x1*y0
		c[0] += (x0 + x1) * cross
		c[1] += (y0 + y1) * cross
	}
	c[0] /= area * 6
	c[1] /= area * 6
	return c
}
