// Package zoom tracks the view transform of a zoomable, pannable map: the
// current scale and translate, the fitted base scale they derive from, and
// the scale extent gestures are clamped to.
package zoom

import (
	"math"

	"github.com/kbeame/ihme-ui/projection"
)

// DefaultStep is the scale factor applied by ZoomIn and ZoomOut when no
// step is configured.
const DefaultStep = 1.1

// Settings configure a Controller. Zero values fall back to the defaults:
// no minimum zoom, unlimited maximum zoom and a step of DefaultStep.
type Settings struct {
	MinZoom float64
	MaxZoom float64
	Step    float64
}

// Controller is the state machine over {scale, translate}. It starts in the
// fitted state for the given bounds and viewport. The scale extent is fixed
// at construction from the initial base scale and never re-derived, so a
// later Refit can leave the current scale outside it; only gesture and
// button transitions clamp.
type Controller struct {
	width, height float64
	bounds        projection.Bounds
	scaleBase     float64
	scale         float64
	translate     [2]float64
	extent        [2]float64
	step          float64
}

// New returns a Controller in the fitted state for the viewport and bounds.
func New(width, height float64, b projection.Bounds, s Settings) *Controller {
	step := s.Step
	if step <= 1 {
		step = DefaultStep
	}
	maxZoom := s.MaxZoom
	if maxZoom <= 0 {
		maxZoom = math.Inf(1)
	}

	base := projection.FitScale(width, height, b)
	return &Controller{
		width:     width,
		height:    height,
		bounds:    b,
		scaleBase: base,
		scale:     base,
		translate: projection.Translate(width, height, base, b),
		extent:    [2]float64{math.Max(base, s.MinZoom), math.Max(base, maxZoom)},
		step:      step,
	}
}

// Scale returns the current effective scale.
func (c *Controller) Scale() float64 { return c.scale }

// Translate returns the current translate.
func (c *Controller) Translate() [2]float64 { return c.translate }

// ScaleBase returns the scale that exactly fits the bounds in the viewport.
func (c *Controller) ScaleBase() float64 { return c.scaleBase }

// Extent returns the [min, max] scale extent fixed at construction.
func (c *Controller) Extent() [2]float64 { return c.extent }

// Gesture adopts a transform emitted by a drag or wheel gesture, clamping
// the scale to the extent. The translate is taken as given.
func (c *Controller) Gesture(scale float64, translate [2]float64) {
	c.scale = c.clamp(scale)
	c.translate = translate
}

// ZoomIn multiplies the scale by the step factor, keeping the geographic
// point at the viewport centre fixed.
func (c *Controller) ZoomIn() {
	c.zoomTo(c.scale * c.step)
}

// ZoomOut divides the scale by the step factor, keeping the geographic
// point at the viewport centre fixed.
func (c *Controller) ZoomOut() {
	c.zoomTo(c.scale / c.step)
}

// Reset returns the controller to the fitted state for the current bounds.
func (c *Controller) Reset() {
	c.scale = c.scaleBase
	c.translate = projection.Translate(c.width, c.height, c.scale, c.bounds)
}

// Refit recomputes the fitted state for a new viewport or new bounds,
// preserving the relative zoom factor scale/scaleBase. A structural change
// (new layers or topology) re-centres on the new bounds; a size-only change
// keeps the previously focused geographic centre fixed on screen. The scale
// extent is left as constructed.
func (c *Controller) Refit(width, height float64, b projection.Bounds, structural bool) {
	factor := 1.0
	if c.scaleBase > 0 {
		factor = c.scale / c.scaleBase
	}

	var center [2]float64
	keepCenter := !structural && c.scale > 0
	if keepCenter {
		center = projection.CenterPoint(c.width, c.height, c.scale, c.translate)
	}

	c.width, c.height, c.bounds = width, height, b
	c.scaleBase = projection.FitScale(width, height, b)
	c.scale = c.scaleBase * factor

	if keepCenter && c.scale > 0 {
		c.translate = projection.FocusTranslate(width, height, c.scale, center)
	} else {
		c.translate = projection.Translate(width, height, c.scale, b)
	}
}

// zoomTo moves to a clamped scale while the geographic point at the
// viewport centre stays put.
func (c *Controller) zoomTo(scale float64) {
	if c.scale <= 0 {
		return
	}
	center := projection.CenterPoint(c.width, c.height, c.scale, c.translate)
	c.scale = c.clamp(scale)
	c.translate = projection.FocusTranslate(c.width, c.height, c.scale, center)
}

func (c *Controller) clamp(scale float64) float64 {
	return math.Min(math.Max(scale, c.extent[0]), c.extent[1])
}
