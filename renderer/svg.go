// Package renderer turns render requests into svg, html and png output.
// Each request drives a choropleth component, so the server-side output is
// produced by the same state machine an interactive host would mount.
package renderer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kbeame/ihme-ui/choropleth"
	"github.com/kbeame/ihme-ui/colour"
	"github.com/kbeame/ihme-ui/geojson2svg"
	"github.com/kbeame/ihme-ui/health"
	"github.com/kbeame/ihme-ui/models"
	"github.com/kbeame/ihme-ui/projection"
	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// RegionClassName is the name of the class assigned to all map regions (denoted by features in the input topology)
const RegionClassName = "mapRegion"

// MissingDataText is the text appended to the title of a region that has missing data
const MissingDataText = "data unavailable"

// defaultWidth is used when the request does not specify a width.
const defaultWidth = 400.0

// SVGRequest wraps a models.RenderRequest together with the choropleth
// component built for it, so that the svg, the legend and the png fallback
// all draw from the same prepared state.
type SVGRequest struct {
	request   *models.RenderRequest
	component *choropleth.Component

	width, height, viewBoxHeight float64
}

// PrepareSVGRequest builds the choropleth component for a render request,
// caching the expensive set-up (simplification, extraction, projection) up
// front. The drawing space is sized from the topology's aspect ratio; a
// requested height only stretches the svg element, never the projection.
func PrepareSVGRequest(request *models.RenderRequest) (*SVGRequest, error) {
	width := request.Width
	if width <= 0 {
		width = defaultWidth
	}
	viewBoxHeight := projection.HeightForWidth(width, topologyBounds(request))
	height := request.Height
	if height <= 0 {
		height = viewBoxHeight
	}

	component, err := newComponent(request, width, viewBoxHeight)
	if err != nil {
		return nil, err
	}
	applyViewState(component, request.View)

	return &SVGRequest{
		request:       request,
		component:     component,
		width:         width,
		height:        height,
		viewBoxHeight: viewBoxHeight,
	}, nil
}

// Component exposes the prepared component for hosts that drive further
// events before rendering.
func (s *SVGRequest) Component() *choropleth.Component { return s.component }

// RenderSVG generates an SVG map for the given request, returning an empty
// string when the request contains no renderable geometry.
func RenderSVG(svgRequest *SVGRequest) string {
	defer health.TrackTime(time.Now(), "renderer.RenderSVG")

	c := svgRequest.component
	if c == nil || !c.Renderable() {
		return ""
	}
	request := svgRequest.request

	svg := geojson2svg.New()
	for _, rl := range c.RenderLayers() {
		if rl.Mesh != nil {
			svg.AppendFeature(meshFeature(c, rl))
			continue
		}
		for _, f := range rl.Features.Features {
			svg.AppendFeature(regionFeature(c, request, rl.Layer, f))
		}
	}

	opts := []geojson2svg.Option{
		geojson2svg.UseProperties([]string{"style", "class", "data-key"}),
		geojson2svg.WithTitles(titleProperty(request)),
		geojson2svg.WithAttribute("viewBox", fmt.Sprintf("0 0 %.f %.f", svgRequest.width, svgRequest.viewBoxHeight)),
	}
	if request.IncludeFallbackPng {
		opts = append(opts, geojson2svg.WithFallbackImage(newRasterizer(svgRequest)))
	}
	return svg.Draw(svgRequest.width, svgRequest.height, c.PathGenerator(), opts...)
}

// newComponent assembles the component config from the wire request.
func newComponent(request *models.RenderRequest, width, height float64) (*choropleth.Component, error) {
	var topo *topojson.Topology
	if request.Geography != nil {
		topo = request.Geography.Topojson
	}
	cfg := choropleth.Config{
		Topology:         topo,
		Layers:           ComponentLayers(request),
		Data:             request.Data,
		Width:            width,
		Height:           height,
		KeyField:         choropleth.DatumAccessor{Field: keyFieldName(request)},
		ValueField:       choropleth.DatumAccessor{Field: valueFieldName(request)},
		GeometryKeyField: choropleth.FeatureAccessor{Field: geometryKeyFieldName(request)},
		MinZoom:          request.MinZoom,
		MaxZoom:          request.MaxZoom,
		ZoomStep:         request.ZoomStep,
		SelectedKeys:     request.SelectedKeys,
	}
	if request.Choropleth != nil && len(request.Choropleth.Breaks) > 0 {
		cfg.ColorScale = colour.NewScale(request.Choropleth.Breaks).Lookup
	}
	return choropleth.New(cfg)
}

// ComponentLayers converts the requested layer specs, defaulting to one
// visible feature layer per topology object in name order.
func ComponentLayers(request *models.RenderRequest) []choropleth.Layer {
	if len(request.Layers) > 0 {
		return choropleth.LayersFromSpecs(request.Layers)
	}
	if request.Geography == nil || request.Geography.Topojson == nil {
		return nil
	}
	names := make([]string, 0, len(request.Geography.Topojson.Objects))
	for name := range request.Geography.Topojson.Objects {
		names = append(names, name)
	}
	sort.Strings(names)
	layers := make([]choropleth.Layer, 0, len(names))
	for _, name := range names {
		layers = append(layers, choropleth.Layer{Name: name, Visible: true})
	}
	return layers
}

// topologyBounds sizes the drawing space from the whole topology, so the
// aspect ratio holds even when some layers are hidden.
func topologyBounds(request *models.RenderRequest) projection.Bounds {
	if request.Geography == nil || request.Geography.Topojson == nil {
		return projection.Empty()
	}
	topo := request.Geography.Topojson
	if len(topo.BoundingBox) == 4 {
		return projection.Bounds{
			{topo.BoundingBox[0], topo.BoundingBox[1]},
			{topo.BoundingBox[2], topo.BoundingBox[3]},
		}
	}
	return projection.FeatureCollectionBounds(topo.ToGeoJSON())
}

func geometryKeyFieldName(request *models.RenderRequest) string {
	if request.GeometryKeyField != "" {
		return request.GeometryKeyField
	}
	if request.Geography != nil && request.Geography.IDProperty != "" {
		return request.Geography.IDProperty
	}
	return "id"
}

func keyFieldName(request *models.RenderRequest) string {
	if request.KeyField != "" {
		return request.KeyField
	}
	return geometryKeyFieldName(request)
}

func valueFieldName(request *models.RenderRequest) string {
	if request.ValueField != "" {
		return request.ValueField
	}
	return "value"
}

// applyViewState replays a saved zoom factor and focus point into the
// component, clamping the resulting scale to the extent fixed at
// construction.
func applyViewState(c *choropleth.Component, view *models.ViewState) {
	if view == nil || !c.Renderable() {
		return
	}
	scale := c.Scale()
	if view.Zoom > 0 {
		scale = c.ScaleBase() * view.Zoom
	}
	extent := c.Extent()
	scale = math.Min(math.Max(scale, extent[0]), extent[1])

	width, height := c.Viewport()
	translate := c.Translate()
	if len(view.Focus) == 2 {
		translate = projection.FocusTranslate(width, height, scale, [2]float64{view.Focus[0], view.Focus[1]})
	} else if scale != c.Scale() {
		// zoom only: keep the current centre fixed
		center := projection.CenterPoint(width, height, c.Scale(), c.Translate())
		translate = projection.FocusTranslate(width, height, scale, center)
	}
	c.Apply(choropleth.GestureMoved{Scale: scale, Translate: translate})
}

// regionFeature shallow-copies a cached feature, attaching the id, classes,
// style and title the svg needs. The cached feature itself is never mutated,
// so repeated renders of the same request produce identical output.
func regionFeature(c *choropleth.Component, request *models.RenderRequest, layer choropleth.Layer, f *geojson.Feature) *geojson.Feature {
	out := geojson.NewFeature(f.Geometry)
	key, hasKey := c.FeatureKey(f)

	style := make(map[string]string, len(layer.Style)+1)
	for k, v := range layer.Style {
		style[k] = v
	}
	fill := ""
	if hasKey {
		fill, _ = c.Fill(key)
	}
	if fill == "" && request.Choropleth != nil {
		fill = request.Choropleth.MissingValueColor
	}
	if fill != "" {
		style["fill"] = fill
	}

	class := RegionClassName
	if layer.ClassName != "" {
		class += " " + layer.ClassName
	}
	if hasKey && c.Selected(key) {
		selectedClass := layer.SelectedClassName
		if selectedClass == "" {
			selectedClass = "selected"
		}
		class += " " + selectedClass
		for k, v := range layer.SelectedStyle {
			style[k] = v
		}
	}

	if hasKey {
		out.ID = regionID(request.Filename, key)
		out.Properties["data-key"] = key
	}
	out.Properties["class"] = class
	if len(style) > 0 {
		out.Properties["style"] = styleString(style)
	}
	out.Properties[titleProperty(request)] = regionTitle(c, request, f, key, hasKey)
	return out
}

// meshFeature styles a boundary mesh. Meshes are drawn unfilled and never
// take pointer events, so hover and click hit the regions beneath them.
func meshFeature(c *choropleth.Component, rl choropleth.RenderLayer) *geojson.Feature {
	out := geojson.NewFeature(rl.Mesh.Geometry)
	style := map[string]string{
		"fill":           "none",
		"stroke":         "#000",
		"stroke-width":   "1",
		"pointer-events": "none",
	}
	for k, v := range c.MeshStyle(rl.Layer, rl.Mesh) {
		if k == "pointer-events" {
			continue
		}
		style[k] = v
	}
	out.Properties["style"] = styleString(style)
	if rl.Layer.ClassName != "" {
		out.Properties["class"] = rl.Layer.ClassName
	}
	return out
}

// regionID builds the id attribute for a region, prefixed with the request
// filename so that several maps can share a page.
func regionID(filename, key string) string {
	if filename == "" {
		return key
	}
	return filename + "-" + key
}

// regionTitle builds the hover title for a region: the feature name followed
// by the formatted value, or MissingDataText when the region has no datum.
func regionTitle(c *choropleth.Component, request *models.RenderRequest, f *geojson.Feature, key string, hasKey bool) string {
	name := featureName(request, f)
	value := 0.0
	ok := false
	if hasKey {
		value, ok = c.Value(key)
	}
	if !ok {
		return strings.TrimSpace(name + " " + MissingDataText)
	}
	prefix, suffix := "", ""
	if request.Choropleth != nil {
		prefix = request.Choropleth.ValuePrefix
		suffix = request.Choropleth.ValueSuffix
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s%g%s", name, prefix, value, suffix))
}

// featureName reads the display name of a feature through the geography's
// name property.
func featureName(request *models.RenderRequest, f *geojson.Feature) string {
	if request.Geography == nil || request.Geography.NameProperty == "" {
		return ""
	}
	if v, ok := f.Properties[request.Geography.NameProperty]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// titleProperty is the property the composed title is stored under on the
// copied feature, and the property the svg emits title elements from.
func titleProperty(request *models.RenderRequest) string {
	if request.Geography != nil && request.Geography.NameProperty != "" {
		return request.Geography.NameProperty
	}
	return "title"
}

// styleString flattens a style map into a css declaration list with sorted
// keys, so rendered output is deterministic.
func styleString(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(style[k])
		sb.WriteString(";")
	}
	return sb.String()
}
