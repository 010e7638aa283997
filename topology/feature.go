package topology

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// FeatureCollection converts the named object collection into GeoJSON
// features, one per geometry, carrying ids and properties across.
func FeatureCollection(t *topojson.Topology, object string) (*geojson.FeatureCollection, error) {
	obj, ok := t.Objects[object]
	if !ok {
		return nil, &InvalidLayerError{Object: object}
	}

	fc := geojson.NewFeatureCollection()
	if obj.Type == geojson.GeometryCollection {
		for _, g := range obj.Geometries {
			fc.AddFeature(feature(t, g))
		}
	} else {
		fc.AddFeature(feature(t, obj))
	}
	return fc, nil
}

func feature(t *topojson.Topology, g *topojson.Geometry) *geojson.Feature {
	feat := geojson.NewFeature(toGeometry(t, g))
	if g.ID != "" {
		feat.ID = g.ID
	}
	feat.Properties = g.Properties
	return feat
}

func toGeometry(t *topojson.Topology, g *topojson.Geometry) *geojson.Geometry {
	switch g.Type {
	case geojson.GeometryPoint:
		return geojson.NewPointGeometry(decodePoint(t, g.Point))
	case geojson.GeometryMultiPoint:
		return geojson.NewMultiPointGeometry(decodePoints(t, g.MultiPoint)...)
	case geojson.GeometryLineString:
		return geojson.NewLineStringGeometry(decodeLine(t, g.LineString))
	case geojson.GeometryMultiLineString:
		lines := make([][][]float64, len(g.MultiLineString))
		for i, arcs := range g.MultiLineString {
			lines[i] = decodeLine(t, arcs)
		}
		return geojson.NewMultiLineStringGeometry(lines...)
	case geojson.GeometryPolygon:
		return geojson.NewPolygonGeometry(decodeRings(t, g.Polygon))
	case geojson.GeometryMultiPolygon:
		polygons := make([][][][]float64, len(g.MultiPolygon))
		for i, rings := range g.MultiPolygon {
			polygons[i] = decodeRings(t, rings)
		}
		return geojson.NewMultiPolygonGeometry(polygons...)
	case geojson.GeometryCollection:
		geometries := make([]*geojson.Geometry, len(g.Geometries))
		for i, child := range g.Geometries {
			geometries[i] = toGeometry(t, child)
		}
		return geojson.NewCollectionGeometry(geometries...)
	}
	return nil
}
