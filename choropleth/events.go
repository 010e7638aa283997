package choropleth

import (
	"github.com/kbeame/ihme-ui/models"
	"github.com/rubenv/topojson"
)

// Event is a state transition trigger for Component.Apply. Events not listed
// here are ignored, so hosts can route their own message types through the
// same dispatch loop.
type Event interface{}

// TopologyChanged replaces the input topology. Simplification re-runs and
// the geometry cache is rebuilt from scratch.
type TopologyChanged struct {
	Topology *topojson.Topology
}

// LayersChanged replaces the layer list. Cached feature geometry is carried
// forward; mesh geometry is re-extracted.
type LayersChanged struct {
	Layers []Layer
}

// Resized updates the viewport, preserving the relative zoom factor and the
// geographic centre.
type Resized struct {
	Width  float64
	Height float64
}

// DataChanged replaces the joined data and rebuilds the key lookup.
type DataChanged struct {
	Data []models.Datum
}

// GestureMoved adopts a transform from a drag or wheel gesture.
type GestureMoved struct {
	Scale     float64
	Translate [2]float64
}

// ZoomButton identifies one of the built-in zoom controls.
type ZoomButton int

const (
	ButtonZoomIn ZoomButton = iota
	ButtonZoomOut
	ButtonZoomReset
)

// ZoomButtonPressed applies a zoom control press.
type ZoomButtonPressed struct {
	Button ZoomButton
}

// SelectionChanged replaces the set of selected location keys.
type SelectionChanged struct {
	SelectedKeys []string
}

// PointerKind identifies which pointer callback an event targets.
type PointerKind int

const (
	PointerClick PointerKind = iota
	PointerOver
	PointerMove
	PointerLeave
)

// PointerEvent reports a pointer interaction with the feature identified by
// its resolved location key. The component only delegates it to the host's
// callback; selection changes come back through SelectionChanged.
type PointerEvent struct {
	Kind PointerKind
	Key  string
}

// Callbacks receive delegated pointer events. Nil callbacks are skipped.
type Callbacks struct {
	OnClick      func(key string)
	OnMouseOver  func(key string)
	OnMouseMove  func(key string)
	OnMouseLeave func(key string)
}
