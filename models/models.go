package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ONSdigital/go-ns/log"
	"github.com/json-iterator/go"
	"github.com/rubenv/topojson"
)

// Sentinel errors returned while decoding request bodies.
var (
	ErrorReadingBody = errors.New("Failed to read message body")
	ErrorNoData      = errors.New("Bad request - Missing data in body")
)

// Legend positions relative to the map. Unset means no legend.
const (
	LegendPositionBefore = "before"
	LegendPositionAfter  = "after"
)

// possible values for LayerSpec.Type
const (
	LayerTypeFeature = "feature"
	LayerTypeMesh    = "mesh"
)

// possible values for LayerSpec.MeshFilter. An empty filter keeps every arc.
const (
	MeshFilterInterior = "interior"
	MeshFilterExterior = "exterior"
)

// Datum is a single row of join data - an arbitrary object keyed by field name.
type Datum map[string]interface{}

// RenderRequest describes a complete map render job: the geography, the data
// joined onto it, and how the result should be presented.
type RenderRequest struct {
	Title               string       `json:"title,omitempty"`
	Subtitle            string       `json:"subtitle,omitempty"`
	Source              string       `json:"source,omitempty"`
	SourceLink          string       `json:"source_link,omitempty"`
	Licence             string       `json:"licence,omitempty"`
	Filename            string       `json:"filename,omitempty"`
	Footnotes           []string     `json:"footnotes,omitempty"`
	Geography           *Geography   `json:"geography,omitempty"`
	Layers              []*LayerSpec `json:"layers,omitempty"` // drawn in array order; empty means one feature layer per topology object
	Data                []Datum      `json:"data,omitempty"`   // joined to features via key_field / geometry_key_field
	KeyField            string       `json:"key_field,omitempty"`
	ValueField          string       `json:"value_field,omitempty"`
	GeometryKeyField    string       `json:"geometry_key_field,omitempty"` // "id" resolves to the feature id
	Choropleth          *Choropleth  `json:"choropleth,omitempty"`
	Width               float64      `json:"width,omitempty"`
	Height              float64      `json:"height,omitempty"`
	MinZoom             float64      `json:"min_zoom,omitempty"`
	MaxZoom             float64      `json:"max_zoom,omitempty"`
	ZoomStep            float64      `json:"zoom_step,omitempty"` // multiplier per zoom button press
	View                *ViewState   `json:"view,omitempty"`
	SelectedKeys        []string     `json:"selected_keys,omitempty"`
	IncludeZoomControls bool         `json:"include_zoom_controls"`
	IncludeFallbackPng  bool         `json:"include_fallback_png"`
	FontSize            int          `json:"font_size"`
}

// Geography carries the topojson topology and the property names used to
// identify and label its features.
type Geography struct {
	Topojson     *topojson.Topology `json:"topojson,omitempty"`
	IDProperty   string             `json:"id_property,omitempty"`
	NameProperty string             `json:"name_property,omitempty"`
}

// LayerSpec identifies one object in the topology and how to draw it.
// Feature layers are filled regions joined to data; mesh layers are stroked
// boundary lines that never receive pointer events.
type LayerSpec struct {
	Name              string            `json:"name,omitempty"`
	Type              string            `json:"type,omitempty"` // feature (default) or mesh
	Visible           *bool             `json:"visible,omitempty"`
	ClassName         string            `json:"class_name,omitempty"`
	Style             map[string]string `json:"style,omitempty"`
	SelectedClassName string            `json:"selected_class_name,omitempty"`
	SelectedStyle     map[string]string `json:"selected_style,omitempty"`
	MeshFilter        string            `json:"mesh_filter,omitempty"` // interior, exterior or empty for all arcs
}

// IsVisible reports whether the layer should be drawn. Unset means visible.
func (l *LayerSpec) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// LayerType returns the layer type, defaulting to feature.
func (l *LayerSpec) LayerType() string {
	if l.Type == LayerTypeMesh {
		return LayerTypeMesh
	}
	return LayerTypeFeature
}

// ViewState is an optional initial view - a zoom factor relative to the
// fitted scale and the geographic point to centre on.
type ViewState struct {
	Zoom  float64   `json:"zoom,omitempty"`
	Focus []float64 `json:"focus,omitempty"`
}

// DataRow holds a single row of analysed data.
type DataRow struct {
	ID    string  `json:"id,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Choropleth configures the colour scale and its legend.
type Choropleth struct {
	ReferenceValue           float64            `json:"reference_value,omitempty"`
	ReferenceValueText       string             `json:"reference_value_text,omitempty"`
	ValuePrefix              string             `json:"value_prefix,omitempty"`
	ValueSuffix              string             `json:"value_suffix,omitempty"`
	Breaks                   []*ChoroplethBreak `json:"breaks,omitempty"`
	UpperBound               float64            `json:"upper_bound,omitempty"` // shown as the final legend tick
	MissingValueColor        string             `json:"missing_value_color,omitempty"`
	HorizontalLegendPosition string             `json:"horizontal_legend_position,omitempty"` // before, after or none (the default)
}

// ChoroplethBreak is one step of the colour scale. Values from LowerBound up
// to the next break take Colour.
type ChoroplethBreak struct {
	LowerBound float64 `json:"lower_bound"`
	Colour     string  `json:"color,omitempty"`
}

// ChartRequest describes a line or area chart render job.
type ChartRequest struct {
	Title    string         `json:"title,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	XLabel   string         `json:"x_label,omitempty"`
	YLabel   string         `json:"y_label,omitempty"`
	Series   []*ChartSeries `json:"series,omitempty"`
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	FontSize int            `json:"font_size"`
}

// ChartSeries holds one named series of points. X and Y are parallel slices.
type ChartSeries struct {
	Label  string    `json:"label,omitempty"`
	Colour string    `json:"color,omitempty"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// AnalyseRequest asks for a csv to be matched against a topology and
// classified into breaks.
type AnalyseRequest struct {
	Geography    *Geography `json:"geography"`
	CSV          string     `json:"csv"`
	IDIndex      int        `json:"id_index"`
	ValueIndex   int        `json:"value_index"`
	HasHeaderRow bool       `json:"has_header_row"`
	ClassCount   int        `json:"class_count,omitempty"` // 0 selects a best-fit count
}

// AnalyseResponse returns the parsed rows, the classification and anything
// worth telling the user about the input.
type AnalyseResponse struct {
	Data              []*DataRow  `json:"data"`
	Messages          []*Message  `json:"messages"`
	Breaks            [][]float64 `json:"breaks"`
	BestFitClassCount int         `json:"best_fit_class_count"`
	MinValue          float64     `json:"min_value"`
	MaxValue          float64     `json:"max_value"`
}

// Message is a user-facing note about the analysis. Level is one of error,
// warn or info.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// decodeBody reads a request body and unmarshals it with the given function.
// A body of bare empty json decodes cleanly, so it is reported as ErrorNoData
// after the fact.
func decodeBody(reader io.Reader, v interface{}, unmarshal func([]byte, interface{}) error) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		log.Error(err, nil)
		return ErrorReadingBody
	}
	if err := unmarshal(b, v); err != nil {
		log.Error(err, log.Data{"request_body": string(b)})
		return err
	}
	if len(b) == 2 {
		return ErrorNoData
	}
	return nil
}

// CreateRenderRequest decodes a render request. Topology payloads can run to
// megabytes, so this one uses jsoniter.
func CreateRenderRequest(reader io.Reader) (*RenderRequest, error) {
	request := new(RenderRequest)
	err := decodeBody(reader, request, jsoniter.Unmarshal)
	return request, err
}

// missingGeography lists the mandatory geography fields absent from g.
func missingGeography(g *Geography) []string {
	if g == nil {
		return []string{"geography"}
	}
	var missing []string
	if g.Topojson == nil {
		missing = append(missing, "geography.topojson")
	}
	if g.IDProperty == "" {
		missing = append(missing, "geography.id_property")
	}
	return missing
}

// ValidateRenderRequest checks that the mandatory fields are present and the
// layer specs make sense.
func (r *RenderRequest) ValidateRenderRequest() error {
	missing := missingGeography(r.Geography)

	if r.Choropleth == nil {
		missing = append(missing, "choropleth")
	} else if len(r.Choropleth.Breaks) == 0 {
		missing = append(missing, "choropleth.breaks")
	}

	if len(missing) > 0 {
		return fmt.Errorf("Missing mandatory field(s): %v", missing)
	}

	for _, layer := range r.Layers {
		if len(layer.Name) == 0 {
			return errors.New("Layer missing mandatory field: name")
		}
		if t := layer.Type; t != "" && t != LayerTypeFeature && t != LayerTypeMesh {
			return fmt.Errorf("Unknown layer type: %s", t)
		}
		if f := layer.MeshFilter; f != "" && f != MeshFilterInterior && f != MeshFilterExterior {
			return fmt.Errorf("Unknown mesh filter: %s", f)
		}
	}

	return nil
}

// CreateChartRequest decodes a chart render request.
func CreateChartRequest(reader io.Reader) (*ChartRequest, error) {
	request := new(ChartRequest)
	err := decodeBody(reader, request, json.Unmarshal)
	return request, err
}

// ValidateChartRequest checks that the series are well formed.
func (r *ChartRequest) ValidateChartRequest() error {
	if len(r.Series) == 0 {
		return fmt.Errorf("Missing mandatory field(s): %v", []string{"series"})
	}

	for i, s := range r.Series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("Series %d: x and y must have the same length: %d != %d", i, len(s.X), len(s.Y))
		}
		if len(s.X) == 0 {
			return fmt.Errorf("Series %d: no points", i)
		}
	}

	return nil
}

// CreateAnalyseRequest decodes an analyse request.
func CreateAnalyseRequest(reader io.Reader) (*AnalyseRequest, error) {
	request := new(AnalyseRequest)
	err := decodeBody(reader, request, json.Unmarshal)
	return request, err
}

// ValidateAnalyseRequest checks mandatory fields and index sanity.
func (r *AnalyseRequest) ValidateAnalyseRequest() error {
	missing := missingGeography(r.Geography)

	if r.CSV == "" {
		missing = append(missing, "csv")
	}

	if len(missing) > 0 {
		return fmt.Errorf("Missing mandatory field(s): %v", missing)
	}
	if r.IDIndex < 0 || r.ValueIndex < 0 {
		return fmt.Errorf("id_index and value_index must be >=0: id_index=%v, value_index=%v", r.IDIndex, r.ValueIndex)
	}
	if r.IDIndex == r.ValueIndex {
		return fmt.Errorf("id_index and value_index cannot refer to the same column: id_index=%v, value_index=%v", r.IDIndex, r.ValueIndex)
	}
	if r.ClassCount < 0 || r.ClassCount == 1 || r.ClassCount == 2 {
		return fmt.Errorf("class_count must be 0 (auto) or at least 3: class_count=%v", r.ClassCount)
	}
	return nil
}
