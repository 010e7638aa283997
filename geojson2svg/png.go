package geojson2svg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/ONSdigital/go-ns/log"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/paulmach/go.geojson"
)

// Rasterizer renders geometry into a PNG image through the same path
// generator used for the SVG output, so raster fallbacks match the vector
// rendering. Layers are painted in the order they are appended.
type Rasterizer struct {
	pg     *PathGenerator
	width  int
	height int
	layers []rasterLayer
}

type rasterLayer struct {
	geometry    *geojson.Geometry
	fill        color.Color
	stroke      color.Color
	strokeWidth float64
}

// NewRasterizer creates a Rasterizer for one image of the given size.
func NewRasterizer(pg *PathGenerator, width, height int) *Rasterizer {
	return &Rasterizer{pg: pg, width: width, height: height}
}

// AppendFill adds a geometry painted with a solid fill and a thin outline
// in the same colour, which keeps adjacent regions free of hairline gaps.
func (r *Rasterizer) AppendFill(g *geojson.Geometry, fill color.Color) {
	r.layers = append(r.layers, rasterLayer{geometry: g, fill: fill, stroke: fill, strokeWidth: 0.5})
}

// AppendStroke adds a geometry drawn as stroked lines.
func (r *Rasterizer) AppendStroke(g *geojson.Geometry, stroke color.Color, width float64) {
	r.layers = append(r.layers, rasterLayer{geometry: g, stroke: stroke, strokeWidth: width})
}

// Convert renders all appended layers to an in-memory PNG.
func (r *Rasterizer) Convert() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	for _, layer := range r.layers {
		r.draw(gc, layer)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Error(err, log.Data{"_message": "Unable to encode png image"})
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertBase64 renders the layers to a base64-encoded png for data URIs.
func (r *Rasterizer) ConvertBase64() (string, error) {
	b, err := r.Convert()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// IncludeFallbackImage wraps the given svg attributes and content in a
// switch element with the rasterized png as a fallback for browsers that
// cannot display svg.
func (r *Rasterizer) IncludeFallbackImage(attributes string, content string) string {
	pngString := "<p>Unsupported Browser</p>"
	b64, err := r.ConvertBase64()
	if err == nil {
		pngString = fmt.Sprintf(`<img alt="Fallback map image for older browsers" src="data:image/png;base64,%s" />`, b64)
	} else {
		log.Error(err, log.Data{"_message": "Unable to include fallback png"})
	}
	return fmt.Sprintf(svgSwitchTemplate, attributes, content, pngString)
}

const svgSwitchTemplate = `<svg %s>
	<switch>
		<g>
%s
		</g>
		<foreignObject>%s</foreignObject>
	</switch>
</svg>`

func (r *Rasterizer) draw(gc *draw2dimg.GraphicContext, layer rasterLayer) {
	path := &draw2d.Path{}
	r.appendPath(path, layer.geometry)
	if len(path.Components) == 0 {
		return
	}
	if layer.fill != nil {
		gc.SetFillColor(layer.fill)
	}
	if layer.stroke != nil {
		gc.SetStrokeColor(layer.stroke)
		gc.SetLineWidth(layer.strokeWidth)
	}
	switch {
	case layer.fill != nil && layer.stroke != nil:
		gc.FillStroke(path)
	case layer.fill != nil:
		gc.Fill(path)
	case layer.stroke != nil:
		gc.Stroke(path)
	}
}

func (r *Rasterizer) appendPath(path *draw2d.Path, g *geojson.Geometry) {
	switch {
	case g == nil:
	case g.IsLineString():
		r.appendLine(path, g.LineString)
	case g.IsMultiLineString():
		for _, line := range g.MultiLineString {
			r.appendLine(path, line)
		}
	case g.IsPolygon():
		r.appendRings(path, g.Polygon)
	case g.IsMultiPolygon():
		for _, rings := range g.MultiPolygon {
			r.appendRings(path, rings)
		}
	case g.IsCollection():
		for _, child := range g.Geometries {
			r.appendPath(path, child)
		}
	}
}

func (r *Rasterizer) appendLine(path *draw2d.Path, line [][]float64) {
	for _, run := range clipPolyline(r.pg.transform(line), r.pg.Clip()) {
		for i, pt := range run {
			if i == 0 {
				path.MoveTo(pt[0], pt[1])
			} else {
				path.LineTo(pt[0], pt[1])
			}
		}
	}
}

func (r *Rasterizer) appendRings(path *draw2d.Path, rings [][][]float64) {
	for _, ring := range rings {
		clipped := clipRing(r.pg.transform(ring), r.pg.Clip())
		if len(clipped) < 3 {
			continue
		}
		for i, pt := range clipped {
			if i == 0 {
				path.MoveTo(pt[0], pt[1])
			} else {
				path.LineTo(pt[0], pt[1])
			}
		}
		path.Close()
	}
}
