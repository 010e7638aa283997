package explorer

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	geojson "github.com/paulmach/go.geojson"

	"github.com/kbeame/ihme-ui/geojson2svg"
)

// renderMap rasterizes the component's layers into a braille canvas of the
// given cell size. Feature layers are filled with their joined colour and
// stroked along their edges; mesh layers are stroked only. Draw order
// follows the layer order, matching the svg output.
func (m Model) renderMap(w, h int) string {
	c := m.component
	if !c.Renderable() {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			dimStyle.Render("no renderable geometry"))
	}

	cv := newCanvas(w, h)
	pg := c.PathGenerator()
	for _, rl := range c.RenderLayers() {
		if rl.Mesh != nil {
			for _, run := range pg.Lines(rl.Mesh.Geometry) {
				cv.strokeRun(run, meshColour)
			}
			continue
		}
		for _, f := range rl.Features.Features {
			rings := pg.Rings(f.Geometry)
			if len(rings) == 0 {
				continue
			}

			fill := m.missingColour()
			edge := edgeColour
			key, ok := c.FeatureKey(f)
			if ok {
				if joined, okf := c.Fill(key); okf {
					fill = joined
				}
				if c.Selected(key) {
					edge = selectedColour
				}
			}

			cv.fillRings(rings, fill)
			for _, ring := range rings {
				cv.strokeRing(ring, edge)
			}
		}
	}
	return cv.render()
}

// featureAt returns the key of the topmost feature whose projected shape
// contains the given canvas pixel point.
func (m Model) featureAt(px, py float64) (string, bool) {
	c := m.component
	if !c.Renderable() {
		return "", false
	}
	pg := c.PathGenerator()

	var found string
	ok := false
	for _, rl := range c.RenderLayers() {
		if rl.Features == nil {
			continue
		}
		for _, f := range rl.Features.Features {
			key, okKey := c.FeatureKey(f)
			if !okKey {
				continue
			}
			if containsPoint(pg.Rings(f.Geometry), px, py) {
				found, ok = key, true
			}
		}
	}
	return found, ok
}

// featureCentre returns the geographic centroid of the named feature's
// largest ring.
func (m Model) featureCentre(key string) ([2]float64, bool) {
	c := m.component
	for _, rl := range c.RenderLayers() {
		if rl.Features == nil {
			continue
		}
		for _, f := range rl.Features.Features {
			if k, ok := c.FeatureKey(f); !ok || k != key {
				continue
			}
			return geometryCentre(f.Geometry)
		}
	}
	return [2]float64{}, false
}

func geometryCentre(g *geojson.Geometry) ([2]float64, bool) {
	var rings [][][]float64
	switch {
	case g == nil:
		return [2]float64{}, false
	case g.IsPolygon():
		rings = g.Polygon
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			rings = append(rings, poly...)
		}
	default:
		return [2]float64{}, false
	}

	centre := geojson2svg.Centroid(rings)
	if len(centre) != 2 || math.IsNaN(centre[0]) || math.IsNaN(centre[1]) {
		return [2]float64{}, false
	}
	return [2]float64{centre[0], centre[1]}, true
}

// containsPoint applies the even-odd rule across all rings of a feature.
func containsPoint(rings [][][2]float64, px, py float64) bool {
	inside := false
	for _, ring := range rings {
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			if (a[1] <= py) == (b[1] <= py) {
				continue
			}
			t := (py - a[1]) / (b[1] - a[1])
			if px < a[0]+t*(b[0]-a[0]) {
				inside = !inside
			}
		}
	}
	return inside
}

func (m Model) missingColour() string {
	if m.request.Choropleth != nil && m.request.Choropleth.MissingValueColor != "" {
		return m.request.Choropleth.MissingValueColor
	}
	return missingColour
}

// visibleLayerCount reports how many of the model's layers are visible,
// for the footer summary.
func (m Model) visibleLayerCount() int {
	n := 0
	for _, l := range m.layers {
		if l.Visible {
			n++
		}
	}
	return n
}
