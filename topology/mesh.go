package topology

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// arcUse records which geometries reference an arc. first and last are the
// first and last geometry registered against the arc, so filters comparing
// them can tell shared boundaries (first != last) from unshared ones.
type arcUse struct {
	signed int
	first  *topojson.Geometry
	last   *topojson.Geometry
}

// Mesh builds a MultiLineString of the arcs used by the named object, each
// arc appearing once regardless of how many geometries share it. The filter
// receives the first and last geometry sharing an arc (the same geometry
// twice for unshared boundaries) and reports whether to keep it; a nil
// filter keeps everything.
func Mesh(t *topojson.Topology, object string, filter func(a, b *topojson.Geometry) bool) (*geojson.Feature, error) {
	obj, ok := t.Objects[object]
	if !ok {
		return nil, &InvalidLayerError{Object: object}
	}

	uses := make(map[int]*arcUse)
	order := make([]int, 0)

	var geom *topojson.Geometry
	record := func(i int) {
		forward := i
		if forward < 0 {
			forward = ^forward
		}
		use, seen := uses[forward]
		if !seen {
			use = &arcUse{signed: i, first: geom}
			uses[forward] = use
			order = append(order, forward)
		}
		use.last = geom
	}

	var visit func(g *topojson.Geometry)
	visit = func(g *topojson.Geometry) {
		switch g.Type {
		case geojson.GeometryCollection:
			for _, child := range g.Geometries {
				visit(child)
			}
		case geojson.GeometryLineString:
			geom = g
			for _, i := range g.LineString {
				record(i)
			}
		case geojson.GeometryMultiLineString:
			geom = g
			for _, line := range g.MultiLineString {
				for _, i := range line {
					record(i)
				}
			}
		case geojson.GeometryPolygon:
			geom = g
			for _, ring := range g.Polygon {
				for _, i := range ring {
					record(i)
				}
			}
		case geojson.GeometryMultiPolygon:
			geom = g
			for _, rings := range g.MultiPolygon {
				for _, ring := range rings {
					for _, i := range ring {
						record(i)
					}
				}
			}
		}
	}
	visit(obj)

	lines := make([][][]float64, 0, len(order))
	for _, forward := range order {
		use := uses[forward]
		if filter != nil && !filter(use.first, use.last) {
			continue
		}
		lines = append(lines, decodeArc(t, use.signed))
	}

	return geojson.NewFeature(geojson.NewMultiLineStringGeometry(lines...)), nil
}
