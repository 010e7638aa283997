package choropleth

import (
	"testing"

	"github.com/kbeame/ihme-ui/colour"
	"github.com/kbeame/ihme-ui/models"
	"github.com/kbeame/ihme-ui/projection"
	"github.com/kbeame/ihme-ui/testdata"
	"github.com/kbeame/ihme-ui/topology"
	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
	. "github.com/smartystreets/goconvey/convey"
)

func districtTopology(t *testing.T) *topojson.Topology {
	topo, err := topojson.UnmarshalTopology(testdata.LoadExampleTopology(t))
	if err != nil {
		t.Fatalf("failed to unmarshal test topology: %v", err)
	}
	return topo
}

func testConfig(t *testing.T) Config {
	scale := colour.NewScale([]*models.ChoroplethBreak{
		{LowerBound: 0, Colour: "blue"},
		{LowerBound: 50, Colour: "red"},
	})
	return Config{
		Topology: districtTopology(t),
		Layers:   []Layer{{Name: "districts", Visible: true}},
		Data: []models.Datum{
			{"loc_id": 1.0, "rate": 10.0},
			{"loc_id": 2.0, "rate": 90.0},
		},
		Width:            600,
		Height:           400,
		KeyField:         DatumAccessor{Field: "loc_id"},
		ValueField:       DatumAccessor{Field: "rate"},
		GeometryKeyField: FeatureAccessor{Field: "loc_id"},
		ColorScale:       scale.Lookup,
		MaxZoom:          1200,
	}
}

func TestNewComponent(t *testing.T) {
	Convey("Given a component over two districts in a 600x400 viewport", t, func() {
		c, err := New(testConfig(t))
		So(err, ShouldBeNil)

		Convey("It starts fitted and renderable", func() {
			So(c.Renderable(), ShouldBeTrue)
			So(c.Scale(), ShouldEqual, 300)
			So(c.Translate()[0], ShouldEqual, 0)
			So(c.Translate()[1], ShouldEqual, 50)
			So(c.Bounds(), ShouldResemble, projectionBounds(0, 0, 2, 1))
		})

		Convey("The path generator matches the view transform", func() {
			So(c.PathGenerator(), ShouldNotBeNil)
			So(c.PathGenerator().Scale(), ShouldEqual, 300)
			So(c.PathGenerator().Translate(), ShouldResemble, [2]float64{0, 50})
		})

		Convey("RenderLayers yields the extracted feature collection", func() {
			layers := c.RenderLayers()

			So(layers, ShouldHaveLength, 1)
			So(layers[0].Features, ShouldNotBeNil)
			So(layers[0].Features.Features, ShouldHaveLength, 2)
		})

		Convey("A layer naming a missing object fails construction", func() {
			cfg := testConfig(t)
			cfg.Layers = []Layer{{Name: "regions", Visible: true}}
			_, err := New(cfg)

			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, &topology.InvalidLayerError{})
		})
	})
}

func TestDataJoin(t *testing.T) {
	Convey("Given the component with a blue/red colour scale split at 50", t, func() {
		c, err := New(testConfig(t))
		So(err, ShouldBeNil)

		Convey("Feature keys join their datum values and fills", func() {
			features := c.RenderLayers()[0].Features.Features

			key1, ok := c.FeatureKey(features[0])
			So(ok, ShouldBeTrue)
			So(key1, ShouldEqual, "1")

			fill1, ok := c.Fill(key1)
			So(ok, ShouldBeTrue)
			So(fill1, ShouldEqual, "blue")

			key2, _ := c.FeatureKey(features[1])
			fill2, ok := c.Fill(key2)
			So(ok, ShouldBeTrue)
			So(fill2, ShouldEqual, "red")
		})

		Convey("DataChanged rebuilds the join", func() {
			So(c.Apply(DataChanged{Data: []models.Datum{
				{"loc_id": 1.0, "rate": 55.0},
				{"rate": 5.0},
			}}), ShouldBeNil)

			v, ok := c.Value("1")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 55)

			fill, ok := c.Fill("1")
			So(ok, ShouldBeTrue)
			So(fill, ShouldEqual, "red")

			Convey("A datum without a resolvable key leaves the join", func() {
				_, ok := c.Fill("2")
				So(ok, ShouldBeFalse)

				_, ok = c.Datum("2")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("String-typed keys and values still join", func() {
			So(c.Apply(DataChanged{Data: []models.Datum{
				{"loc_id": "1", "rate": "7.5"},
			}}), ShouldBeNil)

			v, ok := c.Value("1")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7.5)
		})

		Convey("The feature id can serve as the geometry key", func() {
			cfg := testConfig(t)
			cfg.GeometryKeyField = FeatureAccessor{Field: "id"}
			c, err := New(cfg)
			So(err, ShouldBeNil)

			key, ok := c.FeatureKey(c.RenderLayers()[0].Features.Features[1])
			So(ok, ShouldBeTrue)
			So(key, ShouldEqual, "2")
		})
	})
}

func TestLayerTransitions(t *testing.T) {
	Convey("Given the component with one visible feature layer", t, func() {
		c, err := New(testConfig(t))
		So(err, ShouldBeNil)
		before := c.RenderLayers()[0].Features

		Convey("Hiding and re-showing the layer reuses cached geometry", func() {
			So(c.Apply(LayersChanged{Layers: []Layer{{Name: "districts"}}}), ShouldBeNil)
			So(c.RenderLayers(), ShouldBeEmpty)

			So(c.Apply(LayersChanged{Layers: []Layer{{Name: "districts", Visible: true}}}), ShouldBeNil)
			after := c.RenderLayers()[0].Features

			So(after == before, ShouldBeTrue)

			Convey("And the view transform is untouched", func() {
				So(c.Scale(), ShouldEqual, 300)
				So(c.Translate(), ShouldResemble, [2]float64{0, 50})
			})
		})

		Convey("Mesh geometry is re-extracted on every layer change", func() {
			layers := []Layer{
				{Name: "districts", Visible: true},
				{Name: "districts", Type: MeshLayer, Visible: true, Filter: topology.InteriorFilter},
			}
			So(c.Apply(LayersChanged{Layers: layers}), ShouldBeNil)
			rendered := c.RenderLayers()
			So(rendered, ShouldHaveLength, 2)
			meshBefore := rendered[1].Mesh
			So(meshBefore, ShouldNotBeNil)

			So(c.Apply(LayersChanged{Layers: layers}), ShouldBeNil)
			rendered = c.RenderLayers()

			So(rendered[0].Features == before, ShouldBeTrue)
			So(rendered[1].Mesh == meshBefore, ShouldBeFalse)
		})

		Convey("A layer change naming a missing object surfaces the error", func() {
			err := c.Apply(LayersChanged{Layers: []Layer{{Name: "regions", Visible: true}}})

			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, &topology.InvalidLayerError{})
		})
	})
}

func TestTopologyTransitions(t *testing.T) {
	Convey("Given the component and its initial topology", t, func() {
		cfg := testConfig(t)
		c, err := New(cfg)
		So(err, ShouldBeNil)
		before := c.RenderLayers()[0].Features

		Convey("Re-sending the same topology reference is a no-op", func() {
			So(c.Apply(TopologyChanged{Topology: cfg.Topology}), ShouldBeNil)

			So(c.RenderLayers()[0].Features == before, ShouldBeTrue)
		})

		Convey("A new topology rebuilds the cache wholesale", func() {
			So(c.Apply(TopologyChanged{Topology: districtTopology(t)}), ShouldBeNil)
			after := c.RenderLayers()[0].Features

			So(after == before, ShouldBeFalse)
			So(after.Features, ShouldHaveLength, 2)
			So(c.Scale(), ShouldEqual, 300)
		})
	})
}

func TestViewTransitions(t *testing.T) {
	Convey("Given the fitted component", t, func() {
		c, err := New(testConfig(t))
		So(err, ShouldBeNil)

		Convey("Zoom buttons move the scale within the fixed extent", func() {
			So(c.Apply(ZoomButtonPressed{Button: ButtonZoomIn}), ShouldBeNil)
			So(c.Scale(), ShouldAlmostEqual, 330)

			So(c.Apply(ZoomButtonPressed{Button: ButtonZoomOut}), ShouldBeNil)
			So(c.Scale(), ShouldAlmostEqual, 300)

			Convey("And the path generator tracks every change", func() {
				So(c.PathGenerator().Scale(), ShouldEqual, c.Scale())
			})
		})

		Convey("Gestures clamp to the extent and adopt their translate", func() {
			So(c.Apply(GestureMoved{Scale: 5000, Translate: [2]float64{-40, 10}}), ShouldBeNil)

			So(c.Scale(), ShouldEqual, 1200)
			So(c.Translate(), ShouldResemble, [2]float64{-40, 10})
		})

		Convey("Reset is idempotent", func() {
			So(c.Apply(GestureMoved{Scale: 700, Translate: [2]float64{-40, 10}}), ShouldBeNil)
			So(c.Apply(ZoomButtonPressed{Button: ButtonZoomReset}), ShouldBeNil)
			scale, translate := c.Scale(), c.Translate()

			So(c.Apply(ZoomButtonPressed{Button: ButtonZoomReset}), ShouldBeNil)

			So(c.Scale(), ShouldEqual, scale)
			So(c.Translate(), ShouldResemble, translate)
			So(scale, ShouldEqual, 300)
		})

		Convey("Resizing preserves the relative zoom factor", func() {
			So(c.Apply(ZoomButtonPressed{Button: ButtonZoomIn}), ShouldBeNil)
			So(c.Apply(ZoomButtonPressed{Button: ButtonZoomIn}), ShouldBeNil)

			So(c.Apply(Resized{Width: 300, Height: 200}), ShouldBeNil)

			So(c.ScaleBase(), ShouldEqual, 150)
			So(c.Scale(), ShouldAlmostEqual, 181.5)
		})
	})
}

func TestZeroSizeViewport(t *testing.T) {
	Convey("Given a component mounted before its container has a size", t, func() {
		cfg := testConfig(t)
		cfg.Width = 0
		c, err := New(cfg)
		So(err, ShouldBeNil)

		Convey("Nothing renders until a size arrives", func() {
			So(c.Renderable(), ShouldBeFalse)
			So(c.RenderLayers(), ShouldBeNil)
		})

		Convey("The first real resize fits the view", func() {
			So(c.Apply(Resized{Width: 600, Height: 400}), ShouldBeNil)

			So(c.Renderable(), ShouldBeTrue)
			So(c.Scale(), ShouldEqual, 300)
			So(c.Translate(), ShouldResemble, [2]float64{0, 50})
			So(c.RenderLayers(), ShouldHaveLength, 1)
		})
	})
}

func TestSelectionAndPointerEvents(t *testing.T) {
	Convey("Given a component with host callbacks", t, func() {
		var clicked, hovered string
		cfg := testConfig(t)
		cfg.SelectedKeys = []string{"2"}
		cfg.Callbacks = Callbacks{
			OnClick:     func(key string) { clicked = key },
			OnMouseOver: func(key string) { hovered = key },
		}
		c, err := New(cfg)
		So(err, ShouldBeNil)

		Convey("The selection set is read, not owned", func() {
			So(c.Selected("2"), ShouldBeTrue)
			So(c.Selected("1"), ShouldBeFalse)

			So(c.Apply(SelectionChanged{SelectedKeys: []string{"1"}}), ShouldBeNil)

			So(c.Selected("1"), ShouldBeTrue)
			So(c.Selected("2"), ShouldBeFalse)
		})

		Convey("Pointer events are delegated to the host", func() {
			So(c.Apply(PointerEvent{Kind: PointerClick, Key: "2"}), ShouldBeNil)
			So(c.Apply(PointerEvent{Kind: PointerOver, Key: "1"}), ShouldBeNil)

			So(clicked, ShouldEqual, "2")
			So(hovered, ShouldEqual, "1")

			Convey("Callbacks without a handler are skipped", func() {
				So(c.Apply(PointerEvent{Kind: PointerLeave, Key: "1"}), ShouldBeNil)
			})
		})
	})
}

func TestMeshStyles(t *testing.T) {
	Convey("Given a mesh layer with a computed style", t, func() {
		calls := 0
		mesh := Layer{
			Name:    "districts",
			Type:    MeshLayer,
			Visible: true,
			Filter:  topology.InteriorFilter,
			StyleFn: func(f *geojson.Feature) map[string]string {
				calls++
				return map[string]string{"stroke": "#ffffff"}
			},
		}
		cfg := testConfig(t)
		cfg.Layers = []Layer{mesh}
		c, err := New(cfg)
		So(err, ShouldBeNil)
		feature := c.RenderLayers()[0].Mesh

		Convey("The computed style is memoised per feature", func() {
			first := c.MeshStyle(mesh, feature)
			second := c.MeshStyle(mesh, feature)

			So(first["stroke"], ShouldEqual, "#ffffff")
			So(second["stroke"], ShouldEqual, "#ffffff")
			So(calls, ShouldEqual, 1)

			Convey("And recomputed after the layer list changes", func() {
				So(c.Apply(LayersChanged{Layers: []Layer{mesh}}), ShouldBeNil)
				refreshed := c.RenderLayers()[0].Mesh

				c.MeshStyle(mesh, refreshed)

				So(calls, ShouldEqual, 2)
			})
		})

		Convey("A static style map is returned directly", func() {
			static := Layer{Name: "districts", Type: MeshLayer, Style: map[string]string{"stroke": "#fff"}}

			So(c.MeshStyle(static, feature)["stroke"], ShouldEqual, "#fff")
			So(calls, ShouldEqual, 0)
		})
	})
}

func TestLayersFromSpecs(t *testing.T) {
	Convey("Wire-format layer specs convert to component layers", t, func() {
		hidden := false
		layers := LayersFromSpecs([]*models.LayerSpec{
			{Name: "districts"},
			{Name: "boundaries", Type: models.LayerTypeMesh, MeshFilter: models.MeshFilterInterior,
				Style: map[string]string{"stroke": "#ffffff"}},
			{Name: "coast", Type: models.LayerTypeMesh, MeshFilter: models.MeshFilterExterior, Visible: &hidden},
		})

		So(layers, ShouldHaveLength, 3)
		So(layers[0].kind(), ShouldEqual, FeatureLayer)
		So(layers[0].Visible, ShouldBeTrue)
		So(layers[1].kind(), ShouldEqual, MeshLayer)
		So(layers[1].Style["stroke"], ShouldEqual, "#ffffff")
		So(layers[2].Visible, ShouldBeFalse)

		Convey("And the mesh filter presets keep their semantics", func() {
			a := &topojson.Geometry{ID: "a"}
			b := &topojson.Geometry{ID: "b"}
			So(layers[1].Filter, ShouldNotBeNil)
			So(layers[1].Filter(a, b), ShouldBeTrue)
			So(layers[1].Filter(a, a), ShouldBeFalse)
			So(layers[2].Filter, ShouldNotBeNil)
			So(layers[2].Filter(a, a), ShouldBeTrue)
			So(layers[2].Filter(a, b), ShouldBeFalse)
		})
	})
}

func projectionBounds(minX, minY, maxX, maxY float64) projection.Bounds {
	return projection.Bounds{{minX, minY}, {maxX, maxY}}
}
