// Package topology converts arc-encoded topojson topologies into GeoJSON
// geometry for rendering: feature collections for filled region layers and
// boundary meshes for stroked line layers.
//
// Extraction accepts a pre-simplified topology (see Presimplify) and keeps
// any extra per-point values, so simplification weights survive into the
// extracted geometry.
package topology

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// InvalidLayerError is returned when a layer names an object collection that
// does not exist in the topology.
type InvalidLayerError struct {
	Object string
}

func (e *InvalidLayerError) Error() string {
	return fmt.Sprintf("Topology has no object named '%s'", e.Object)
}

// Layer names one object collection to extract from a topology.
// Object defaults to Name when empty. Filter applies to mesh layers only;
// nil keeps every arc.
type Layer struct {
	Name   string
	Object string
	Mesh   bool
	Filter func(a, b *topojson.Geometry) bool
}

// Extraction holds extracted geometry keyed by layer name.
type Extraction struct {
	Feature map[string]*geojson.FeatureCollection
	Mesh    map[string]*geojson.Feature
}

// Extract converts each requested layer into its GeoJSON form. It performs
// no simplification of its own, and fails on the first layer that names a
// missing object rather than producing empty geometry for it.
func Extract(t *topojson.Topology, layers []Layer) (*Extraction, error) {
	extraction := &Extraction{
		Feature: make(map[string]*geojson.FeatureCollection),
		Mesh:    make(map[string]*geojson.Feature),
	}
	for _, layer := range layers {
		object := layer.Object
		if object == "" {
			object = layer.Name
		}
		if layer.Mesh {
			mesh, err := Mesh(t, object, layer.Filter)
			if err != nil {
				return nil, err
			}
			extraction.Mesh[layer.Name] = mesh
			continue
		}
		fc, err := FeatureCollection(t, object)
		if err != nil {
			return nil, err
		}
		extraction.Feature[layer.Name] = fc
	}
	return extraction, nil
}

// InteriorFilter keeps only boundaries shared by two distinct geometries.
func InteriorFilter(a, b *topojson.Geometry) bool { return a != b }

// ExteriorFilter keeps only boundaries belonging to a single geometry.
func ExteriorFilter(a, b *topojson.Geometry) bool { return a == b }
