package testdata

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rubenv/topojson"
)

// GenerateData produces a deterministic synthetic dataset for the named
// object in the topology: one row per geometry, keyed by the keyField
// property (falling back to the geometry id), with values drawn uniformly
// from [min, max). The same seed always yields the same rows.
func GenerateData(topo *topojson.Topology, object, keyField, valueField string, seed int64, min, max float64) []map[string]interface{} {
	obj, ok := topo.Objects[object]
	if !ok {
		return nil
	}

	geometries := obj.Geometries
	if len(geometries) == 0 {
		geometries = []*topojson.Geometry{obj}
	}

	keys := make([]interface{}, 0, len(geometries))
	for _, g := range geometries {
		if v, ok := g.Properties[keyField]; ok && v != nil {
			keys = append(keys, v)
			continue
		}
		if g.ID != "" {
			keys = append(keys, g.ID)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i]) < fmt.Sprintf("%v", keys[j])
	})

	rng := rand.New(rand.NewSource(seed))
	rows := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, map[string]interface{}{
			keyField:   key,
			valueField: min + rng.Float64()*(max-min),
		})
	}
	return rows
}
