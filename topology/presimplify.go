package topology

import (
	"container/heap"
	"math"

	"github.com/rubenv/topojson"
)

// Presimplify returns a copy of the topology whose arcs hold absolute
// coordinates with a third value per point: the point's Visvalingam
// effective area, usable as a level-of-detail weight at render time. Arc
// endpoints are pinned with an infinite weight so arcs never lose their
// junctions. The input topology is not modified; object collections are
// shared with the result since extraction only reads them.
func Presimplify(t *topojson.Topology) *topojson.Topology {
	candidates := &triangleHeap{}
	arcs := make([][][]float64, len(t.Arcs))

	for i := range t.Arcs {
		arc := decodeArc(t, i)
		for j, p := range arc {
			if len(p) < 3 {
				p = append(p, 0)
			}
			arc[j] = p
		}

		var triangles []*triangle
		for j := 1; j < len(arc)-1; j++ {
			tri := &triangle{a: arc[j-1], b: arc[j], c: arc[j+1]}
			tri.b[2] = area(tri)
			triangles = append(triangles, tri)
			heap.Push(candidates, tri)
		}

		// Always keep the arc endpoints.
		arc[0][2] = math.Inf(1)
		arc[len(arc)-1][2] = math.Inf(1)

		for j, tri := range triangles {
			if j > 0 {
				tri.previous = triangles[j-1]
			}
			if j < len(triangles)-1 {
				tri.next = triangles[j+1]
			}
		}

		arcs[i] = arc
	}

	maxWeight := 0.0
	for candidates.Len() > 0 {
		tri := heap.Pop(candidates).(*triangle)

		// A point can only be eliminated after the points eliminated
		// before it, so its weight never decreases along removal order.
		if tri.b[2] < maxWeight {
			tri.b[2] = maxWeight
		} else {
			maxWeight = tri.b[2]
		}

		if previous := tri.previous; previous != nil {
			previous.next = tri.next
			previous.c = tri.c
			previous.b[2] = area(previous)
			heap.Fix(candidates, previous.index)
		}
		if next := tri.next; next != nil {
			next.previous = tri.previous
			next.a = tri.a
			next.b[2] = area(next)
			heap.Fix(candidates, next.index)
		}
	}

	return &topojson.Topology{
		Type:        t.Type,
		BoundingBox: t.BoundingBox,
		Objects:     t.Objects,
		Arcs:        arcs,
	}
}

// triangle is a point and its two live neighbours along an arc; b is the
// candidate for elimination and b[2] carries its current effective area.
type triangle struct {
	a, b, c        []float64
	previous, next *triangle
	index          int
}

func area(t *triangle) float64 {
	return math.Abs((t.a[0]-t.c[0])*(t.b[1]-t.a[1])-(t.a[0]-t.b[0])*(t.c[1]-t.a[1])) / 2
}

// triangleHeap is a min-heap of triangles ordered by candidate weight.
type triangleHeap []*triangle

func (h triangleHeap) Len() int { return len(h) }

func (h triangleHeap) Less(i, j int) bool { return h[i].b[2] < h[j].b[2] }

func (h triangleHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *triangleHeap) Push(x interface{}) {
	tri := x.(*triangle)
	tri.index = len(*h)
	*h = append(*h, tri)
}

func (h *triangleHeap) Pop() interface{} {
	old := *h
	n := len(old)
	tri := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return tri
}
