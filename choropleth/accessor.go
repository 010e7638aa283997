package choropleth

import (
	"fmt"
	"strconv"

	"github.com/kbeame/ihme-ui/models"
	geojson "github.com/paulmach/go.geojson"
)

// DatumAccessor resolves a value from a datum: either a named field or a
// function over the whole datum. A zero accessor resolves nothing.
type DatumAccessor struct {
	Field string
	Fn    func(models.Datum) interface{}
}

// Resolve returns the accessor's value for the datum, or nil when the field
// is absent or the function yields nothing.
func (a DatumAccessor) Resolve(d models.Datum) interface{} {
	if a.Fn != nil {
		return a.Fn(d)
	}
	if a.Field == "" {
		return nil
	}
	return d[a.Field]
}

// FeatureAccessor resolves the join key from an extracted feature. A named
// field reads the feature's properties, with "id" falling back to the
// feature ID when no such property exists.
type FeatureAccessor struct {
	Field string
	Fn    func(*geojson.Feature) interface{}
}

// Resolve returns the accessor's value for the feature, or nil when it
// cannot be resolved.
func (a FeatureAccessor) Resolve(f *geojson.Feature) interface{} {
	if a.Fn != nil {
		return a.Fn(f)
	}
	if f == nil || a.Field == "" {
		return nil
	}
	if v, ok := f.Properties[a.Field]; ok {
		return v
	}
	if a.Field == "id" {
		return f.ID
	}
	return nil
}

// NormalizeKey renders a resolved key as a string so numeric and string
// forms of the same identifier join. Integral floats lose their fraction
// part ("1", not "1.000000"); a nil key reports false.
func NormalizeKey(v interface{}) (string, bool) {
	switch k := v.(type) {
	case nil:
		return "", false
	case string:
		return k, true
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), true
	case int:
		return strconv.Itoa(k), true
	default:
		return fmt.Sprintf("%v", k), true
	}
}

// toFloat coerces a resolved value to a number for the colour scale.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
