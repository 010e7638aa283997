package renderer

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/kbeame/ihme-ui/choropleth"
	"github.com/kbeame/ihme-ui/colour"
	"github.com/kbeame/ihme-ui/geojson2svg"
	"github.com/kbeame/ihme-ui/health"
	"github.com/kbeame/ihme-ui/models"
	geojson "github.com/paulmach/go.geojson"
)

// ErrNoGeometry is returned when a request has no renderable geometry to rasterize.
var ErrNoGeometry = errors.New("request contains no renderable geometry")

// RenderPNG rasterizes the request's layers into a standalone png using the
// same projection and fills as the svg output.
func RenderPNG(svgRequest *SVGRequest) ([]byte, error) {
	defer health.TrackTime(time.Now(), "renderer.RenderPNG")

	c := svgRequest.component
	if c == nil || !c.Renderable() {
		return nil, ErrNoGeometry
	}
	return newRasterizer(svgRequest).Convert()
}

// newRasterizer paints the same layers the svg draws into a rasterizer, so
// the png fallback matches the vector output.
func newRasterizer(svgRequest *SVGRequest) *geojson2svg.Rasterizer {
	c := svgRequest.component
	request := svgRequest.request
	r := geojson2svg.NewRasterizer(c.PathGenerator(), int(svgRequest.width), int(svgRequest.viewBoxHeight))
	for _, rl := range c.RenderLayers() {
		if rl.Mesh != nil {
			stroke, width := meshStrokeStyle(c, rl)
			r.AppendStroke(rl.Mesh.Geometry, stroke, width)
			continue
		}
		for _, f := range rl.Features.Features {
			if fill, ok := regionFillColour(c, request, f); ok {
				r.AppendFill(f.Geometry, fill)
			}
		}
	}
	return r
}

// regionFillColour resolves a region's fill as a parsed colour. Regions
// whose fill is missing or not a hex colour are left unpainted.
func regionFillColour(c *choropleth.Component, request *models.RenderRequest, f *geojson.Feature) (color.Color, bool) {
	fill := ""
	if key, ok := c.FeatureKey(f); ok {
		fill, _ = c.Fill(key)
	}
	if fill == "" && request.Choropleth != nil {
		fill = request.Choropleth.MissingValueColor
	}
	if fill == "" {
		return nil, false
	}
	parsed, err := colour.ParseHex(fill)
	if err != nil {
		return nil, false
	}
	return parsed, true
}

// meshStrokeStyle resolves a mesh layer's stroke colour and width, with the
// same black hairline default the svg uses.
func meshStrokeStyle(c *choropleth.Component, rl choropleth.RenderLayer) (color.Color, float64) {
	stroke := color.Color(color.Black)
	width := 1.0
	style := c.MeshStyle(rl.Layer, rl.Mesh)
	if s, err := colour.ParseHex(style["stroke"]); err == nil {
		stroke = s
	}
	if w, err := strconv.ParseFloat(strings.TrimSuffix(style["stroke-width"], "px"), 64); err == nil && w > 0 {
		width = w
	}
	return stroke, width
}
