package geojson2svg

import (
	"bytes"
	"fmt"

	"github.com/paulmach/go.geojson"
)

// ClipExtent is the pixel-space rectangle [[x0, y0], [x1, y1]] that rendered
// paths are clipped to.
type ClipExtent [2][2]float64

// ViewportClip returns a clip extent padded one unit beyond the viewport so
// boundary strokes are not visibly truncated at the edges.
func ViewportClip(width, height float64) ClipExtent {
	return ClipExtent{{-1, -1}, {width + 1, height + 1}}
}

// contains reports whether a pixel point lies inside the extent.
func (e ClipExtent) contains(x, y float64) bool {
	return x >= e[0][0] && x <= e[1][0] && y >= e[0][1] && y <= e[1][1]
}

// PathGenerator maps geographic coordinates into pixel space and renders
// geometry as SVG path data. Points carrying a simplification weight as
// their third value are dropped when the weight falls below 1/scale², so
// detail that would be invisible at the current zoom never reaches the
// output, and everything is clipped to the configured extent.
type PathGenerator struct {
	scale     float64
	translate [2]float64
	clip      ClipExtent
	minArea   float64
}

// NewPathGenerator builds a generator for the given view transform.
func NewPathGenerator(scale float64, translate [2]float64, clip ClipExtent) *PathGenerator {
	p := &PathGenerator{scale: scale, translate: translate, clip: clip}
	if scale != 0 {
		p.minArea = 1 / (scale * scale)
	}
	return p
}

// Scale returns the scale the generator was built with.
func (p *PathGenerator) Scale() float64 { return p.scale }

// Translate returns the translate the generator was built with.
func (p *PathGenerator) Translate() [2]float64 { return p.translate }

// Clip returns the extent the generator clips to.
func (p *PathGenerator) Clip() ClipExtent { return p.clip }

// Point maps a geographic coordinate into pixel space.
func (p *PathGenerator) Point(x, y float64) (float64, float64) {
	return x*p.scale + p.translate[0], y*p.scale + p.translate[1]
}

// Rings returns the projected, clipped rings of a polygonal geometry, for
// hosts that rasterize through a backend other than SVG path data. Rings
// reduced to fewer than three points by clipping are dropped.
func (p *PathGenerator) Rings(g *geojson.Geometry) [][][2]float64 {
	if g == nil {
		return nil
	}
	var out [][][2]float64
	switch {
	case g.IsPolygon():
		out = p.appendRings(out, g.Polygon)
	case g.IsMultiPolygon():
		for _, rings := range g.MultiPolygon {
			out = p.appendRings(out, rings)
		}
	case g.IsCollection():
		for _, child := range g.Geometries {
			out = append(out, p.Rings(child)...)
		}
	}
	return out
}

// Lines returns the projected, clipped runs of a linear geometry.
func (p *PathGenerator) Lines(g *geojson.Geometry) [][][2]float64 {
	if g == nil {
		return nil
	}
	var out [][][2]float64
	switch {
	case g.IsLineString():
		out = append(out, clipPolyline(p.transform(g.LineString), p.clip)...)
	case g.IsMultiLineString():
		for _, line := range g.MultiLineString {
			out = append(out, clipPolyline(p.transform(line), p.clip)...)
		}
	case g.IsCollection():
		for _, child := range g.Geometries {
			out = append(out, p.Lines(child)...)
		}
	}
	return out
}

func (p *PathGenerator) appendRings(out [][][2]float64, rings [][][]float64) [][][2]float64 {
	for _, ring := range rings {
		clipped := clipRing(p.transform(ring), p.clip)
		if len(clipped) < 3 {
			continue
		}
		out = append(out, clipped)
	}
	return out
}

// Path returns the SVG path data for a geometry, or an empty string when
// level-of-detail filtering and clipping leave nothing to draw. Point
// geometries have no path form and also yield an empty string.
func (p *PathGenerator) Path(g *geojson.Geometry) string {
	if g == nil {
		return ""
	}
	buf := &bytes.Buffer{}
	p.writePath(buf, g)
	return buf.String()
}

func (p *PathGenerator) writePath(buf *bytes.Buffer, g *geojson.Geometry) {
	switch {
	case g.IsLineString():
		p.writeLine(buf, g.LineString)
	case g.IsMultiLineString():
		for _, line := range g.MultiLineString {
			p.writeLine(buf, line)
		}
	case g.IsPolygon():
		p.writeRings(buf, g.Polygon)
	case g.IsMultiPolygon():
		for _, rings := range g.MultiPolygon {
			p.writeRings(buf, rings)
		}
	case g.IsCollection():
		for _, child := range g.Geometries {
			p.writePath(buf, child)
		}
	}
}

func (p *PathGenerator) writeLine(buf *bytes.Buffer, line [][]float64) {
	for _, run := range clipPolyline(p.transform(line), p.clip) {
		writePoints(buf, run, false)
	}
}

func (p *PathGenerator) writeRings(buf *bytes.Buffer, rings [][][]float64) {
	for _, ring := range rings {
		clipped := clipRing(p.transform(ring), p.clip)
		if len(clipped) < 3 {
			continue
		}
		writePoints(buf, clipped, true)
	}
}

// transform applies the level-of-detail cutoff and maps the surviving
// points into pixel space.
func (p *PathGenerator) transform(points [][]float64) [][2]float64 {
	out := make([][2]float64, 0, len(points))
	for _, pt := range points {
		if len(pt) > 2 && pt[2] < p.minArea {
			continue
		}
		x, y := p.Point(pt[0], pt[1])
		out = append(out, [2]float64{x, y})
	}
	return out
}

func writePoints(buf *bytes.Buffer, points [][2]float64, closed bool) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
	buf.WriteString("M")
	for i, pt := range points {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, "%f %f", pt[0], pt[1])
	}
	if closed {
		buf.WriteString(" Z")
	}
}
