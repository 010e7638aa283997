// Package choropleth ties topology extraction, projection, the zoom
// controller and the path generator together behind one component: an
// explicit state machine whose transitions are Events applied through a
// reducer. The component caches extracted geometry, the computed bounds,
// the view transform and the data join, and each event recomputes only the
// state it invalidates.
package choropleth

import (
	"sort"

	"github.com/kbeame/ihme-ui/geojson2svg"
	"github.com/kbeame/ihme-ui/models"
	"github.com/kbeame/ihme-ui/projection"
	"github.com/kbeame/ihme-ui/topology"
	"github.com/kbeame/ihme-ui/zoom"
	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// LayerType distinguishes filled feature layers from stroked mesh layers.
type LayerType string

const (
	FeatureLayer LayerType = "feature"
	MeshLayer    LayerType = "mesh"
)

// Layer describes one drawn layer. Draw order follows the layer slice
// order. Object names the topology collection to extract and defaults to
// Name. Filter applies to mesh layers only; nil keeps every boundary.
// StyleFn, when set on a mesh layer, computes the style from the mesh
// feature and is memoised until the layer list changes.
type Layer struct {
	Name              string
	Type              LayerType
	Object            string
	Visible           bool
	ClassName         string
	SelectedClassName string
	Style             map[string]string
	SelectedStyle     map[string]string
	StyleFn           func(*geojson.Feature) map[string]string
	Filter            func(a, b *topojson.Geometry) bool
}

// kind returns the layer type with the zero value defaulted to feature.
func (l Layer) kind() LayerType {
	if l.Type == MeshLayer {
		return MeshLayer
	}
	return FeatureLayer
}

func (l Layer) key() cacheKey {
	return cacheKey{kind: l.kind(), name: l.Name}
}

func (l Layer) object() string {
	if l.Object != "" {
		return l.Object
	}
	return l.Name
}

// cacheKey is the identity of a layer for caching purposes.
type cacheKey struct {
	kind LayerType
	name string
}

type cacheEntry struct {
	features *geojson.FeatureCollection
	mesh     *geojson.Feature
	bounds   projection.Bounds
}

type styleKey struct {
	layer   string
	feature *geojson.Feature
}

// Config is the component's construction surface: the inputs the host owns
// and updates through events.
type Config struct {
	Topology         *topojson.Topology
	Layers           []Layer
	Data             []models.Datum
	Width            float64
	Height           float64
	KeyField         DatumAccessor
	ValueField       DatumAccessor
	GeometryKeyField FeatureAccessor
	ColorScale       func(value float64) string
	MinZoom          float64
	MaxZoom          float64
	ZoomStep         float64
	SelectedKeys     []string
	Callbacks        Callbacks
}

// Component is a single choropleth map instance. It owns its cached state
// exclusively; all methods are driven by one host loop and are not safe for
// concurrent use.
type Component struct {
	topology   *topojson.Topology
	simplified *topojson.Topology
	layers     []Layer
	data       []models.Datum
	width      float64
	height     float64

	keyField         DatumAccessor
	valueField       DatumAccessor
	geometryKeyField FeatureAccessor
	colorScale       func(float64) string
	selected         map[string]bool
	callbacks        Callbacks

	cache     map[cacheKey]cacheEntry
	styles    map[styleKey]map[string]string
	bounds    projection.Bounds
	view      *zoom.Controller
	pg        *geojson2svg.PathGenerator
	processed map[string]models.Datum
}

// New builds a component in its initial state: topology simplified once,
// visible layers extracted, bounds computed, view fitted and the zoom
// extent fixed from the initial base scale.
func New(cfg Config) (*Component, error) {
	c := &Component{
		topology:         cfg.Topology,
		layers:           cfg.Layers,
		data:             cfg.Data,
		width:            cfg.Width,
		height:           cfg.Height,
		keyField:         cfg.KeyField,
		valueField:       cfg.ValueField,
		geometryKeyField: cfg.GeometryKeyField,
		colorScale:       cfg.ColorScale,
		selected:         keySet(cfg.SelectedKeys),
		callbacks:        cfg.Callbacks,
		cache:            make(map[cacheKey]cacheEntry),
		styles:           make(map[styleKey]map[string]string),
	}
	if cfg.Topology != nil {
		c.simplified = topology.Presimplify(cfg.Topology)
	}
	if err := c.fillCache(); err != nil {
		return nil, err
	}
	c.bounds = c.cacheBounds()
	c.view = zoom.New(cfg.Width, cfg.Height, c.bounds, zoom.Settings{
		MinZoom: cfg.MinZoom,
		MaxZoom: cfg.MaxZoom,
		Step:    cfg.ZoomStep,
	})
	c.rebuildPathGenerator()
	c.processed = c.processData()
	return c, nil
}

// Apply runs one state transition. It returns an error only when a layer
// names a missing topology object (see topology.InvalidLayerError); any
// other event leaves the component in a consistent state and returns nil.
func (c *Component) Apply(ev Event) error {
	switch e := ev.(type) {
	case TopologyChanged:
		return c.setTopology(e.Topology)
	case LayersChanged:
		return c.setLayers(e.Layers)
	case Resized:
		c.resize(e.Width, e.Height)
	case DataChanged:
		c.data = e.Data
		c.processed = c.processData()
	case GestureMoved:
		c.view.Gesture(e.Scale, e.Translate)
		c.rebuildPathGenerator()
	case ZoomButtonPressed:
		switch e.Button {
		case ButtonZoomIn:
			c.view.ZoomIn()
		case ButtonZoomOut:
			c.view.ZoomOut()
		case ButtonZoomReset:
			c.view.Reset()
		}
		c.rebuildPathGenerator()
	case SelectionChanged:
		c.selected = keySet(e.SelectedKeys)
	case PointerEvent:
		c.pointer(e)
	}
	return nil
}

// setTopology re-simplifies and rebuilds the geometry cache wholesale. The
// same topology reference is a no-op, so hosts may re-send their props.
func (c *Component) setTopology(t *topojson.Topology) error {
	if t == c.topology {
		return nil
	}
	c.topology = t
	c.simplified = nil
	if t != nil {
		c.simplified = topology.Presimplify(t)
	}
	c.cache = make(map[cacheKey]cacheEntry)
	c.styles = make(map[styleKey]map[string]string)
	if err := c.fillCache(); err != nil {
		return err
	}
	c.refitBounds()
	return nil
}

// setLayers merges the new layer list into the cache: feature entries are
// carried forward, mesh entries are dropped and re-extracted while visible
// since their filter functions may capture external state.
func (c *Component) setLayers(layers []Layer) error {
	c.layers = layers
	for key := range c.cache {
		if key.kind == MeshLayer {
			delete(c.cache, key)
		}
	}
	c.styles = make(map[styleKey]map[string]string)
	if err := c.fillCache(); err != nil {
		return err
	}
	c.refitBounds()
	return nil
}

func (c *Component) resize(width, height float64) {
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.view.Refit(width, height, c.bounds, false)
	c.rebuildPathGenerator()
}

// fillCache extracts geometry for visible layers that have no cache entry.
func (c *Component) fillCache() error {
	if c.simplified == nil {
		return nil
	}
	for _, l := range c.layers {
		if !l.Visible {
			continue
		}
		if _, ok := c.cache[l.key()]; ok {
			continue
		}
		entry, err := c.extract(l)
		if err != nil {
			return err
		}
		c.cache[l.key()] = entry
	}
	return nil
}

func (c *Component) extract(l Layer) (cacheEntry, error) {
	if l.kind() == MeshLayer {
		mesh, err := topology.Mesh(c.simplified, l.object(), l.Filter)
		if err != nil {
			return cacheEntry{}, err
		}
		return cacheEntry{mesh: mesh, bounds: projection.FeatureBounds(mesh)}, nil
	}
	fc, err := topology.FeatureCollection(c.simplified, l.object())
	if err != nil {
		return cacheEntry{}, err
	}
	return cacheEntry{features: fc, bounds: projection.FeatureCollectionBounds(fc)}, nil
}

// cacheBounds unions the bounds of every cache entry. The min/max fold is
// order independent, so map iteration order does not matter.
func (c *Component) cacheBounds() projection.Bounds {
	b := projection.Empty()
	for _, entry := range c.cache {
		b = b.Extend(entry.bounds)
	}
	return b
}

// refitBounds adopts the cache bounds if they changed, re-centring the view
// on the new bounds.
func (c *Component) refitBounds() {
	b := c.cacheBounds()
	if b == c.bounds {
		return
	}
	c.bounds = b
	c.view.Refit(c.width, c.height, b, true)
	c.rebuildPathGenerator()
}

func (c *Component) rebuildPathGenerator() {
	c.pg = geojson2svg.NewPathGenerator(c.view.Scale(), c.view.Translate(),
		geojson2svg.ViewportClip(c.width, c.height))
}

// processData rebuilds the key → datum join. Datums whose key cannot be
// resolved are dropped from the join rather than failing the render.
func (c *Component) processData() map[string]models.Datum {
	processed := make(map[string]models.Datum, len(c.data))
	for _, d := range c.data {
		key, ok := NormalizeKey(c.keyField.Resolve(d))
		if !ok {
			continue
		}
		processed[key] = d
	}
	return processed
}

func (c *Component) pointer(e PointerEvent) {
	var fn func(string)
	switch e.Kind {
	case PointerClick:
		fn = c.callbacks.OnClick
	case PointerOver:
		fn = c.callbacks.OnMouseOver
	case PointerMove:
		fn = c.callbacks.OnMouseMove
	case PointerLeave:
		fn = c.callbacks.OnMouseLeave
	}
	if fn != nil {
		fn(e.Key)
	}
}

// RenderLayer pairs a visible layer with its extracted geometry for drawing.
type RenderLayer struct {
	Layer    Layer
	Features *geojson.FeatureCollection
	Mesh     *geojson.Feature
}

// RenderLayers returns the visible layers in draw order with their cached
// geometry, or nil while the component is not renderable.
func (c *Component) RenderLayers() []RenderLayer {
	if !c.Renderable() {
		return nil
	}
	out := make([]RenderLayer, 0, len(c.layers))
	for _, l := range c.layers {
		if !l.Visible {
			continue
		}
		entry, ok := c.cache[l.key()]
		if !ok {
			continue
		}
		out = append(out, RenderLayer{Layer: l, Features: entry.features, Mesh: entry.mesh})
	}
	return out
}

// Renderable reports whether the component has geometry and a viewport it
// can fit it into. A zero-size viewport is not renderable.
func (c *Component) Renderable() bool {
	return c.view.ScaleBase() > 0
}

// PathGenerator returns the cached generator for the current transform.
func (c *Component) PathGenerator() *geojson2svg.PathGenerator {
	return c.pg
}

// Bounds returns the union bounds over all cached layer geometry.
func (c *Component) Bounds() projection.Bounds { return c.bounds }

// Scale returns the current effective scale.
func (c *Component) Scale() float64 { return c.view.Scale() }

// ScaleBase returns the scale that exactly fits the bounds in the viewport.
func (c *Component) ScaleBase() float64 { return c.view.ScaleBase() }

// Translate returns the current translate.
func (c *Component) Translate() [2]float64 { return c.view.Translate() }

// Extent returns the [min, max] scale extent fixed at construction, for
// hosts that clamp externally computed transforms before applying them.
func (c *Component) Extent() [2]float64 { return c.view.Extent() }

// Viewport returns the current width and height.
func (c *Component) Viewport() (float64, float64) { return c.width, c.height }

// FeatureKey resolves a feature's location key through the geometry key
// accessor. ok is false when the feature has no resolvable key.
func (c *Component) FeatureKey(f *geojson.Feature) (string, bool) {
	return NormalizeKey(c.geometryKeyField.Resolve(f))
}

// Datum returns the datum joined to the given location key.
func (c *Component) Datum(key string) (models.Datum, bool) {
	d, ok := c.processed[key]
	return d, ok
}

// Value returns the numeric value joined to the given location key.
func (c *Component) Value(key string) (float64, bool) {
	d, ok := c.processed[key]
	if !ok {
		return 0, false
	}
	return toFloat(c.valueField.Resolve(d))
}

// Values returns the joined numeric values in ascending order, for hosts
// that derive a legend or scale domain from the data.
func (c *Component) Values() []float64 {
	out := make([]float64, 0, len(c.processed))
	for _, d := range c.processed {
		if v, ok := toFloat(c.valueField.Resolve(d)); ok {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Fill returns the colour-scale fill for the key's joined value. ok is
// false when the key has no numeric value, so callers fall back to the
// missing-value style.
func (c *Component) Fill(key string) (string, bool) {
	v, ok := c.Value(key)
	if !ok || c.colorScale == nil {
		return "", false
	}
	return c.colorScale(v), true
}

// Selected reports whether the key is in the externally owned selection.
func (c *Component) Selected(key string) bool {
	return c.selected[key]
}

// MeshStyle returns the computed style for a mesh feature, memoised until
// the layer list changes.
func (c *Component) MeshStyle(l Layer, f *geojson.Feature) map[string]string {
	if l.StyleFn == nil {
		return l.Style
	}
	k := styleKey{layer: l.Name, feature: f}
	if s, ok := c.styles[k]; ok {
		return s
	}
	s := l.StyleFn(f)
	c.styles[k] = s
	return s
}

// LayersFromSpecs converts wire-format layer specs into component layers,
// resolving mesh filter presets to filter functions.
func LayersFromSpecs(specs []*models.LayerSpec) []Layer {
	layers := make([]Layer, 0, len(specs))
	for _, s := range specs {
		l := Layer{
			Name:              s.Name,
			Visible:           s.IsVisible(),
			ClassName:         s.ClassName,
			SelectedClassName: s.SelectedClassName,
			SelectedStyle:     s.SelectedStyle,
			Style:             s.Style,
		}
		if s.LayerType() == models.LayerTypeMesh {
			l.Type = MeshLayer
			switch s.MeshFilter {
			case models.MeshFilterInterior:
				l.Filter = topology.InteriorFilter
			case models.MeshFilterExterior:
				l.Filter = topology.ExteriorFilter
			}
		}
		layers = append(layers, l)
	}
	return layers
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
