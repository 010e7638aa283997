package chart_test

import (
	"testing"

	"github.com/kbeame/ihme-ui/chart"
	"github.com/kbeame/ihme-ui/models"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderLine(t *testing.T) {

	Convey("RenderLine should draw each series as a polyline", t, func() {
		request := &models.ChartRequest{
			Title:    "Malaria deaths over time",
			XLabel:   "Year",
			YLabel:   "Deaths",
			Width:    600,
			Height:   400,
			FontSize: 14,
			Series: []*models.ChartSeries{
				{Label: "Alpha", Colour: "#2166ac", X: []float64{2000, 2005, 2010, 2015}, Y: []float64{10, 30, 20, 40}},
			},
		}

		result, err := chart.RenderLine(request)

		So(err, ShouldBeNil)
		So(result, ShouldStartWith, `<svg width="600" height="400" viewBox="0 0 600 400" class="chart">`)
		So(result, ShouldContainSubstring, `class="chart__title"`)
		So(result, ShouldContainSubstring, `>Malaria deaths over time</text>`)
		So(result, ShouldContainSubstring, `>Year</text>`)
		So(result, ShouldContainSubstring, `>Deaths</text>`)

		// the plot area runs from (55, 40) to (580, 355) once the title
		// has claimed its space, so the corner points pin the scales
		So(result, ShouldContainSubstring,
			`<path class="chart__series" data-label="Alpha" `+
				`d="M55.000000 355.000000,230.000000 145.000000,405.000000 250.000000,580.000000 40.000000" `+
				`style="fill: none; stroke: #2166ac; stroke-width: 2;"></path>`)

		// x ticks every 2 years, y ticks every 5 deaths
		So(result, ShouldContainSubstring, `>2000<`)
		So(result, ShouldContainSubstring, `>2014<`)
		So(result, ShouldContainSubstring, `>10<`)
		So(result, ShouldContainSubstring, `>40<`)
		So(result, ShouldContainSubstring, `<g class="tick" transform="translate(55.000000, 355.000000)">`)
	})

	Convey("Series without a colour take one from the default palette", t, func() {
		request := &models.ChartRequest{
			Series: []*models.ChartSeries{
				{Label: "a", X: []float64{0, 1}, Y: []float64{0, 1}},
			},
		}

		result, err := chart.RenderLine(request)

		So(err, ShouldBeNil)
		So(result, ShouldContainSubstring, "stroke: #206095;")
	})
}

func TestRenderArea(t *testing.T) {

	Convey("RenderArea should close each series to the baseline", t, func() {
		request := &models.ChartRequest{
			Width:  600,
			Height: 400,
			Series: []*models.ChartSeries{
				{Label: "a", X: []float64{0, 1, 2}, Y: []float64{0, 10, 5}},
			},
		}

		result, err := chart.RenderArea(request)

		So(err, ShouldBeNil)
		So(result, ShouldContainSubstring,
			`d="M55.000000 355.000000,317.500000 20.000000,580.000000 187.500000,580.000000 355.000000,55.000000 355.000000 Z"`)
		So(result, ShouldContainSubstring, "fill: #206095; fill-opacity: 0.6;")
	})
}

func TestRenderChartErrors(t *testing.T) {

	Convey("A request without series cannot be drawn", t, func() {
		_, err := chart.RenderLine(&models.ChartRequest{})
		So(err, ShouldEqual, chart.ErrNoSeries)
	})

	Convey("A request with only empty series cannot be drawn", t, func() {
		request := &models.ChartRequest{
			Series: []*models.ChartSeries{{Label: "empty"}},
		}
		_, err := chart.RenderArea(request)
		So(err, ShouldEqual, chart.ErrNoSeries)
	})
}

func TestTicks(t *testing.T) {

	Convey("Ticks picks round values at 1-2-5 spacings", t, func() {
		So(chart.Ticks(0, 100, 8), ShouldResemble, []float64{0, 20, 40, 60, 80, 100})
		So(chart.Ticks(0, 10, 5), ShouldResemble, []float64{0, 5, 10})
		So(chart.Ticks(0, 1, 5), ShouldResemble, []float64{0, 0.5, 1})
		So(chart.Ticks(3, 97, 10), ShouldResemble, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90})
	})

	Convey("Degenerate ranges collapse to a single tick or nothing", t, func() {
		So(chart.Ticks(5, 5, 4), ShouldResemble, []float64{5})
		So(chart.Ticks(0, 10, 0), ShouldBeNil)
		So(chart.Ticks(10, 0, 4), ShouldBeNil)
	})
}
