// Package geojson2svg renders geojson geometries, features and feature
// collections into svg markup. Coordinates pass through an explicit view
// transform (see PathGenerator) which also applies level-of-detail filtering
// and clipping.
package geojson2svg

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/paulmach/go.geojson"
)

const newline = "\n"

// SVG accumulates geojson elements and draws them as an svg document.
// The zero value is not usable, call New.
type SVG struct {
	useProp    func(string) bool
	attributes map[string]string
	elements   []element
	titleProp  string
	fallback   *Rasterizer
}

// An element is any appended item that can write itself as svg markup.
type element interface {
	write(svg *SVG, pg *PathGenerator, w io.Writer)
}

// An Option adjusts how the svg document is drawn.
type Option func(*SVG)

// New returns an empty SVG. By default only the "class" property of a
// feature is copied to its svg element.
func New() *SVG {
	return &SVG{
		useProp:    func(prop string) bool { return prop == "class" },
		attributes: make(map[string]string),
	}
}

// Draw renders the accumulated elements to an svg document of the given
// size. The path generator maps all coordinates to pixel space.
func (svg *SVG) Draw(width, height float64, pg *PathGenerator, opts ...Option) string {
	for _, o := range opts {
		o(svg)
	}

	var content strings.Builder
	for _, e := range svg.elements {
		e.write(svg, pg, &content)
	}

	attributes := attributeString(svg.attributes)
	if svg.fallback != nil {
		return svg.fallback.IncludeFallbackImage(fmt.Sprintf(`width="%g" height="%g"%s`, width, height, attributes), content.String())
	}
	return fmt.Sprintf(`<svg width="%g" height="%g"%s>%s%s</svg>`, width, height, attributes, content.String(), newline)
}

// AppendGeometry queues a bare geometry for the next Draw.
func (svg *SVG) AppendGeometry(g *geojson.Geometry) {
	svg.elements = append(svg.elements, geometryElement{g})
}

// AppendFeature queues a feature for the next Draw. Its id and configured
// properties become attributes on the rendered element.
func (svg *SVG) AppendFeature(f *geojson.Feature) {
	svg.elements = append(svg.elements, featureElement{f})
}

// AppendFeatureCollection queues every feature in the collection.
func (svg *SVG) AppendFeatureCollection(fc *geojson.FeatureCollection) {
	svg.elements = append(svg.elements, collectionElement{fc})
}

type geometryElement struct{ g *geojson.Geometry }

func (e geometryElement) write(svg *SVG, pg *PathGenerator, w io.Writer) {
	writeGeometry(pg, w, e.g, "", "")
}

type featureElement struct{ f *geojson.Feature }

func (e featureElement) write(svg *SVG, pg *PathGenerator, w io.Writer) {
	attributes, title := svg.featureAttributes(e.f)
	writeGeometry(pg, w, e.f.Geometry, attributes, title)
}

type collectionElement struct{ fc *geojson.FeatureCollection }

func (e collectionElement) write(svg *SVG, pg *PathGenerator, w io.Writer) {
	for _, f := range e.fc.Features {
		attributes, title := svg.featureAttributes(f)
		writeGeometry(pg, w, f.Geometry, attributes, title)
	}
}

// WithAttribute sets an attribute on the svg root element.
func WithAttribute(k, v string) Option {
	return func(svg *SVG) {
		svg.attributes[k] = v
	}
}

// WithAttributes sets a map of attributes on the svg root element.
func WithAttributes(as map[string]string) Option {
	return func(svg *SVG) {
		for k, v := range as {
			svg.attributes[k] = v
		}
	}
}

// WithTitles gives each feature element a title child holding the named
// property, which browsers show as a tooltip.
func WithTitles(titleProperty string) Option {
	return func(svg *SVG) {
		svg.titleProp = titleProperty
	}
}

// WithFallbackImage wraps the drawing in a switch element with a rasterised
// copy for browsers that cannot display svg.
func WithFallbackImage(r *Rasterizer) Option {
	return func(svg *SVG) {
		svg.fallback = r
	}
}

// UseProperties names the geojson properties copied to each svg element as
// attributes, replacing the default of "class" alone.
func UseProperties(props []string) Option {
	return func(svg *SVG) {
		svg.useProp = func(prop string) bool {
			for _, p := range props {
				if p == prop {
					return true
				}
			}
			return false
		}
	}
}

func writeGeometry(pg *PathGenerator, w io.Writer, g *geojson.Geometry, attributes, title string) {
	switch {
	case g == nil:
	case g.IsPoint():
		writePoint(pg, w, g.Point, attributes, title)
	case g.IsMultiPoint():
		openGroup(w, attributes, title)
		for _, p := range g.MultiPoint {
			writePoint(pg, w, p, "", "")
		}
		fmt.Fprintf(w, `%s</g>`, newline)
	case g.IsCollection():
		openGroup(w, attributes, title)
		for _, child := range g.Geometries {
			writeGeometry(pg, w, child, "", "")
		}
		fmt.Fprintf(w, `%s</g>`, newline)
	default:
		writePath(pg, w, g, attributes, title)
	}
}

// openGroup writes a g start tag with an optional title child.
func openGroup(w io.Writer, attributes, title string) {
	fmt.Fprintf(w, `%s<g%s>`, newline, attributes)
	if title != "" {
		fmt.Fprintf(w, `%s<title>%s</title>`, newline, title)
	}
}

// writePoint draws a point as a fixed-radius circle, dropping points that
// fall outside the clip window.
func writePoint(pg *PathGenerator, w io.Writer, p []float64, attributes, title string) {
	x, y := pg.Point(p[0], p[1])
	if !pg.Clip().contains(x, y) {
		return
	}
	fmt.Fprintf(w, `%s<circle cx="%f" cy="%f" r="1"%s%s`, newline, x, y, attributes, closeTag("circle", title))
}

// writePath draws any line or polygon geometry as a single path element,
// skipping geometries the generator reduced to nothing.
func writePath(pg *PathGenerator, w io.Writer, g *geojson.Geometry, attributes, title string) {
	d := pg.Path(g)
	if d == "" {
		return
	}
	fmt.Fprintf(w, `%s<path d="%s"%s%s`, newline, d, attributes, closeTag("path", title))
}

// closeTag self-closes the element, or closes it around a title child.
func closeTag(tag, title string) string {
	if title != "" {
		return fmt.Sprintf("><title>%s</title></%s>", title, tag)
	}
	return "/>"
}

// featureAttributes renders the feature id and its configured properties as
// an attribute string, and extracts the title property.
func (svg *SVG) featureAttributes(feature *geojson.Feature) (string, string) {
	attrs := make(map[string]string)
	if id, ok := feature.ID.(string); ok && id != "" {
		attrs["id"] = id
	}
	for k, v := range feature.Properties {
		if svg.useProp(k) {
			attrs[k] = fmt.Sprintf("%v", v)
		}
	}
	title := ""
	if v, ok := feature.Properties[svg.titleProp]; ok {
		title = fmt.Sprintf("%v", v)
	}
	return attributeString(attrs), title
}

// attributeString renders the map as space-prefixed key="value" pairs in
// sorted key order so output is deterministic.
func attributeString(as map[string]string) string {
	keys := make([]string, 0, len(as))
	for k := range as {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, as[k])
	}
	return b.String()
}
