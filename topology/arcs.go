package topology

import (
	"github.com/rubenv/topojson"
)

// decodeArc expands arc i into absolute coordinates. Negative indexes follow
// the topojson convention: ^i names the arc traversed in reverse. An index
// beyond the arc table yields no points, so a truncated topology degrades to
// empty geometry rather than a panic. Points are always copied, and values
// beyond x and y ride along untouched.
func decodeArc(t *topojson.Topology, i int) [][]float64 {
	reverse := false
	if i < 0 {
		i = ^i
		reverse = true
	}
	if i >= len(t.Arcs) {
		return nil
	}
	arc := t.Arcs[i]

	points := make([][]float64, len(arc))
	x, y := 0.0, 0.0
	for k, p := range arc {
		q := append([]float64{}, p...)
		if t.Transform != nil {
			x += p[0]
			y += p[1]
			q[0] = x*t.Transform.Scale[0] + t.Transform.Translate[0]
			q[1] = y*t.Transform.Scale[1] + t.Transform.Translate[1]
		}
		points[k] = q
	}

	if reverse {
		for a, b := 0, len(points)-1; a < b; a, b = a+1, b-1 {
			points[a], points[b] = points[b], points[a]
		}
	}
	return points
}

// decodeLine concatenates the arcs of a line into one point sequence.
// Consecutive arcs share their junction point, which is emitted only once.
func decodeLine(t *topojson.Topology, arcs []int) [][]float64 {
	points := make([][]float64, 0)
	for _, a := range arcs {
		arc := decodeArc(t, a)
		if len(points) > 0 && len(arc) > 0 {
			last := points[len(points)-1]
			if last[0] == arc[0][0] && last[1] == arc[0][1] {
				arc = arc[1:]
			}
		}
		points = append(points, arc...)
	}
	return points
}

// decodeRings expands the arcs of each polygon ring.
func decodeRings(t *topojson.Topology, rings [][]int) [][][]float64 {
	out := make([][][]float64, len(rings))
	for i, ring := range rings {
		out[i] = decodeLine(t, ring)
	}
	return out
}

// decodePoint applies the topology transform to a raw (non-arc) point.
func decodePoint(t *topojson.Topology, p []float64) []float64 {
	q := append([]float64{}, p...)
	if t.Transform != nil && len(q) >= 2 {
		q[0] = p[0]*t.Transform.Scale[0] + t.Transform.Translate[0]
		q[1] = p[1]*t.Transform.Scale[1] + t.Transform.Translate[1]
	}
	return q
}

// decodePoints applies the topology transform to a set of raw points.
func decodePoints(t *topojson.Topology, points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = decodePoint(t, p)
	}
	return out
}
