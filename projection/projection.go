// Package projection computes the linear view transform used to draw
// geographic geometry in a viewport: a bounding box over extracted layers,
// the scale that exactly fits it, and the translate that centres it.
// Screen coordinates are geographic coordinates scaled then offset; there is
// no spherical projection here.
package projection

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
)

// Bounds is [[minX, minY], [maxX, maxY]] in geographic coordinates.
type Bounds [2][2]float64

// Empty returns bounds that any point will extend.
func Empty() Bounds {
	inf := math.Inf(1)
	return Bounds{{inf, inf}, {-inf, -inf}}
}

// Valid reports whether the bounds contain at least one point.
func (b Bounds) Valid() bool {
	return b[0][0] <= b[1][0] && b[0][1] <= b[1][1]
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b[1][0] - b[0][0] }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b[1][1] - b[0][1] }

// Center returns the midpoint of the bounds.
func (b Bounds) Center() [2]float64 {
	return [2]float64{(b[0][0] + b[1][0]) / 2, (b[0][1] + b[1][1]) / 2}
}

// Contains reports whether other lies entirely within b.
func (b Bounds) Contains(other Bounds) bool {
	return other[0][0] >= b[0][0] && other[0][1] >= b[0][1] &&
		other[1][0] <= b[1][0] && other[1][1] <= b[1][1]
}

// ExtendPoint grows the bounds to include a point.
func (b Bounds) ExtendPoint(p []float64) Bounds {
	if len(p) < 2 {
		return b
	}
	b[0][0] = math.Min(b[0][0], p[0])
	b[0][1] = math.Min(b[0][1], p[1])
	b[1][0] = math.Max(b[1][0], p[0])
	b[1][1] = math.Max(b[1][1], p[1])
	return b
}

// Extend grows the bounds to include another bounds. Invalid operands are
// ignored, so unions can start from Empty and fold in any order.
func (b Bounds) Extend(other Bounds) Bounds {
	if !other.Valid() {
		return b
	}
	b[0][0] = math.Min(b[0][0], other[0][0])
	b[0][1] = math.Min(b[0][1], other[0][1])
	b[1][0] = math.Max(b[1][0], other[1][0])
	b[1][1] = math.Max(b[1][1], other[1][1])
	return b
}

// FeatureCollectionBounds returns the union of all feature bounds.
func FeatureCollectionBounds(fc *geojson.FeatureCollection) Bounds {
	b := Empty()
	if fc == nil {
		return b
	}
	for _, f := range fc.Features {
		b = b.Extend(FeatureBounds(f))
	}
	return b
}

// FeatureBounds returns the bounds of a single feature's geometry.
func FeatureBounds(f *geojson.Feature) Bounds {
	if f == nil {
		return Empty()
	}
	return GeometryBounds(f.Geometry)
}

// GeometryBounds returns the bounds of any geometry type.
func GeometryBounds(g *geojson.Geometry) Bounds {
	b := Empty()
	if g == nil {
		return b
	}
	switch g.Type {
	case geojson.GeometryPoint:
		b = b.ExtendPoint(g.Point)
	case geojson.GeometryMultiPoint:
		b = extendPoints(b, g.MultiPoint)
	case geojson.GeometryLineString:
		b = extendPoints(b, g.LineString)
	case geojson.GeometryMultiLineString:
		for _, line := range g.MultiLineString {
			b = extendPoints(b, line)
		}
	case geojson.GeometryPolygon:
		for _, ring := range g.Polygon {
			b = extendPoints(b, ring)
		}
	case geojson.GeometryMultiPolygon:
		for _, rings := range g.MultiPolygon {
			for _, ring := range rings {
				b = extendPoints(b, ring)
			}
		}
	case geojson.GeometryCollection:
		for _, child := range g.Geometries {
			b = b.Extend(GeometryBounds(child))
		}
	}
	return b
}

func extendPoints(b Bounds, points [][]float64) Bounds {
	for _, p := range points {
		b = b.ExtendPoint(p)
	}
	return b
}

// FitScale returns the largest scale at which the bounds fit the viewport
// with no padding: min(width/boundsWidth, height/boundsHeight). A viewport
// or bounds without positive extent is not renderable and yields 0.
func FitScale(width, height float64, b Bounds) float64 {
	if width <= 0 || height <= 0 || !b.Valid() {
		return 0
	}
	bw, bh := b.Width(), b.Height()
	switch {
	case bw <= 0 && bh <= 0:
		return 0
	case bw <= 0:
		return height / bh
	case bh <= 0:
		return width / bw
	}
	return math.Min(width/bw, height/bh)
}

// HeightForWidth returns an appropriate height given a desired width,
// preserving the aspect ratio of the bounds. Bounds without horizontal
// extent have no usable ratio and yield 0.
func HeightForWidth(width float64, b Bounds) float64 {
	if !b.Valid() || b.Width() <= 0 {
		return 0
	}
	ratio := b.Height() / b.Width()
	return math.Floor((width * ratio) + .5)
}

// Translate returns the offset that centres the scaled bounds in the viewport.
func Translate(width, height, scale float64, b Bounds) [2]float64 {
	return [2]float64{
		(width - scale*(b[0][0]+b[1][0])) / 2,
		(height - scale*(b[0][1]+b[1][1])) / 2,
	}
}

// FocusTranslate returns the offset that pins a geographic focus point to
// the viewport centre, used to keep the view steady across a resize.
func FocusTranslate(width, height, scale float64, focus [2]float64) [2]float64 {
	return [2]float64{
		width/2 - scale*focus[0],
		height/2 - scale*focus[1],
	}
}

// CenterPoint recovers the geographic point at the viewport centre, the
// inverse of FocusTranslate.
func CenterPoint(width, height, scale float64, translate [2]float64) [2]float64 {
	return [2]float64{
		(width/2 - translate[0]) / scale,
		(height/2 - translate[1]) / scale,
	}
}
