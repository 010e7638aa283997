// Package chart renders line and area charts as standalone svg documents.
// Series are mapped linearly into the plot area; axis ticks are picked at
// the lowest 1-2-5 decimal level that fits.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
	"github.com/kbeame/ihme-ui/health"
	"github.com/kbeame/ihme-ui/htmlutil"
	"github.com/kbeame/ihme-ui/models"
)

const (
	defaultChartWidth  = 600.0
	defaultChartHeight = 400.0

	marginTop    = 20.0
	marginRight  = 20.0
	marginBottom = 45.0
	marginLeft   = 55.0

	titleSpace    = 20.0
	subtitleSpace = 16.0

	maxXTicks = 10
	maxYTicks = 8
)

// ErrNoSeries is returned when a chart request has no series to draw.
var ErrNoSeries = errors.New("chart request contains no series")

// defaultColours colour series that do not specify their own.
var defaultColours = []string{"#206095", "#a8bd3a", "#871a5b", "#f66068", "#746cb1", "#22d0b6"}

// RenderLine draws every series as a stroked polyline.
func RenderLine(request *models.ChartRequest) (string, error) {
	defer health.TrackTime(time.Now(), "chart.RenderLine")
	return render(request, false)
}

// RenderArea draws every series as a polygon closed to the x-axis baseline.
func RenderArea(request *models.ChartRequest) (string, error) {
	defer health.TrackTime(time.Now(), "chart.RenderArea")
	return render(request, true)
}

func render(request *models.ChartRequest, area bool) (string, error) {
	series := drawableSeries(request.Series)
	if len(series) == 0 {
		return "", ErrNoSeries
	}
	width, height := chartSize(request)
	xd, yd := domains(series, area)

	content := bytes.NewBufferString("")
	top := writeTitles(content, request, width)
	left, right, bottom := marginLeft, width-marginRight, height-marginBottom

	xScale := linearScale(xd, left, right)
	yScale := linearScale(yd, bottom, top)

	writeAxes(content, request, xd, yd, xScale, yScale, left, right, top, bottom)
	for i, s := range series {
		writeSeriesPath(content, s, i, area, xScale, yScale)
	}

	attributes := fmt.Sprintf(`width="%g" height="%g" viewBox="0 0 %.f %.f" class="chart"`, width, height, width, height)
	return fmt.Sprintf("<svg %s>%s</svg>", attributes, content), nil
}

// drawableSeries filters out series without points, so a sparse request
// still renders the series that have data.
func drawableSeries(series []*models.ChartSeries) []*models.ChartSeries {
	result := make([]*models.ChartSeries, 0, len(series))
	for _, s := range series {
		if s != nil && len(s.X) > 0 && len(s.X) == len(s.Y) {
			result = append(result, s)
		}
	}
	return result
}

func chartSize(request *models.ChartRequest) (float64, float64) {
	width, height := request.Width, request.Height
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	return width, height
}

// domain is a [min, max] pair in data space.
type domain [2]float64

func (d domain) extend(v float64) domain {
	return domain{math.Min(d[0], v), math.Max(d[1], v)}
}

// normalized widens a zero-width domain so a constant series still has a
// usable scale.
func (d domain) normalized() domain {
	if d[0] == d[1] {
		return domain{d[0] - 1, d[1] + 1}
	}
	return d
}

// domains returns the x and y extents over all series. Area charts close to
// the x axis, so their y domain always includes the baseline.
func domains(series []*models.ChartSeries, area bool) (domain, domain) {
	x := domain{math.Inf(1), math.Inf(-1)}
	y := domain{math.Inf(1), math.Inf(-1)}
	for _, s := range series {
		for i := range s.X {
			x = x.extend(s.X[i])
			y = y.extend(s.Y[i])
		}
	}
	if area {
		y = y.extend(0)
	}
	return x.normalized(), y.normalized()
}

// linearScale maps the domain onto a pixel range. An inverted range (min
// greater than max) is how the y axis flips into screen coordinates.
func linearScale(d domain, rangeMin, rangeMax float64) func(float64) float64 {
	span := d[1] - d[0]
	return func(v float64) float64 {
		return rangeMin + (v-d[0])/span*(rangeMax-rangeMin)
	}
}

// writeTitles writes the title and subtitle, returning the y position where
// the plot area starts.
func writeTitles(w *bytes.Buffer, request *models.ChartRequest, width float64) float64 {
	top := marginTop
	if len(request.Title) > 0 {
		fmt.Fprintf(w, `<text x="%f" y="%f" style="text-anchor: middle;" class="chart__title"%s>%s</text>`,
			width/2, top-4, textAdjust(request.Title, width, request.FontSize), request.Title)
		top += titleSpace
	}
	if len(request.Subtitle) > 0 {
		fmt.Fprintf(w, `<text x="%f" y="%f" style="text-anchor: middle;" class="chart__subtitle"%s>%s</text>`,
			width/2, top-4, textAdjust(request.Subtitle, width, request.FontSize), request.Subtitle)
		top += subtitleSpace
	}
	return top
}

// textAdjust squeezes text that would overflow the svg, the same treatment
// the map legend title gets.
func textAdjust(text string, svgWidth float64, fontSize int) string {
	if htmlutil.ApproximateTextWidth(text, fontSize) >= svgWidth {
		return fmt.Sprintf(` textLength="%.f" lengthAdjust="spacingAndGlyphs"`, svgWidth-2)
	}
	return ""
}

func writeAxes(w *bytes.Buffer, request *models.ChartRequest, xd, yd domain, xScale, yScale func(float64) float64, left, right, top, bottom float64) {
	w.WriteString(`<g class="chart__axes">`)
	fmt.Fprintf(w, `<line x1="%f" y1="%f" x2="%f" y2="%f" style="stroke-width: 1; stroke: Black;"></line>`, left, bottom, right, bottom)
	fmt.Fprintf(w, `<line x1="%f" y1="%f" x2="%f" y2="%f" style="stroke-width: 1; stroke: Black;"></line>`, left, top, left, bottom)

	for _, t := range Ticks(xd[0], xd[1], maxXTicks) {
		fmt.Fprintf(w, `<g class="tick" transform="translate(%f, %f)">`, xScale(t), bottom)
		w.WriteString(`<line x2="0" y2="6" style="stroke-width: 1; stroke: Black;"></line>`)
		fmt.Fprintf(w, `<text x="0" y="9" dy=".74em" style="text-anchor: middle;" class="chartText">%g</text>`, t)
		w.WriteString(`</g>`)
	}
	for _, t := range Ticks(yd[0], yd[1], maxYTicks) {
		fmt.Fprintf(w, `<g class="tick" transform="translate(%f, %f)">`, left, yScale(t))
		w.WriteString(`<line x2="-6" y2="0" style="stroke-width: 1; stroke: Black;"></line>`)
		fmt.Fprintf(w, `<text x="-9" y="0" dy=".32em" style="text-anchor: end;" class="chartText">%g</text>`, t)
		w.WriteString(`</g>`)
	}

	if len(request.XLabel) > 0 {
		fmt.Fprintf(w, `<text x="%f" y="%f" style="text-anchor: middle;" class="chartText">%s</text>`, (left+right)/2, bottom+36, request.XLabel)
	}
	if len(request.YLabel) > 0 {
		fmt.Fprintf(w, `<text transform="translate(%f, %f) rotate(-90)" style="text-anchor: middle;" class="chartText">%s</text>`, 14.0, (top+bottom)/2, request.YLabel)
	}
	w.WriteString(`</g>`)
}

// writeSeriesPath writes one series as a single path: a polyline for line
// charts, closed down to the baseline for area charts.
func writeSeriesPath(w *bytes.Buffer, s *models.ChartSeries, index int, area bool, xScale, yScale func(float64) float64) {
	colour := s.Colour
	if colour == "" {
		colour = defaultColours[index%len(defaultColours)]
	}

	var d bytes.Buffer
	for i := range s.X {
		if i == 0 {
			fmt.Fprintf(&d, "M%f %f", xScale(s.X[i]), yScale(s.Y[i]))
		} else {
			fmt.Fprintf(&d, ",%f %f", xScale(s.X[i]), yScale(s.Y[i]))
		}
	}
	style := fmt.Sprintf("fill: none; stroke: %s; stroke-width: 2;", colour)
	if area {
		baseline := yScale(0)
		fmt.Fprintf(&d, ",%f %f,%f %f Z", xScale(s.X[len(s.X)-1]), baseline, xScale(s.X[0]), baseline)
		style = fmt.Sprintf("fill: %s; fill-opacity: 0.6; stroke: %s; stroke-width: 1;", colour, colour)
	}
	fmt.Fprintf(w, `<path class="chart__series" data-label="%s" d="%s" style="%s"></path>`, s.Label, d.String(), style)
}

// Ticks returns at most maxTicks round values covering [min, max], chosen at
// the lowest decimal level that fits. Levels cycle the spacing mantissa
// through 1, 2 and 5 within each decade.
func Ticks(min, max float64, maxTicks int) []float64 {
	if maxTicks < 1 || min > max {
		return nil
	}
	if min == max {
		return []float64{min}
	}
	o := scale.TickOptions{Max: maxTicks}
	guess := int(math.Round(3 * math.Log10((max-min)/float64(maxTicks))))
	level, ok := o.FindLevel(
		func(level int) int { return tickCount(min, max, level) },
		func(level int) []float64 { return ticksAtLevel(min, max, level) },
		guess)
	if !ok {
		return nil
	}
	return ticksAtLevel(min, max, level)
}

// tickSpacing returns the spacing between ticks at the given level.
func tickSpacing(level int) float64 {
	mantissa := []float64{1, 2, 5}[((level%3)+3)%3]
	return mantissa * math.Pow(10, math.Floor(float64(level)/3))
}

func tickCount(min, max float64, level int) int {
	spacing := tickSpacing(level)
	lo, hi := math.Ceil(min/spacing), math.Floor(max/spacing)
	if hi < lo {
		return 0
	}
	return int(hi-lo) + 1
}

func ticksAtLevel(min, max float64, level int) []float64 {
	spacing := tickSpacing(level)
	lo, hi := math.Ceil(min/spacing), math.Floor(max/spacing)
	ticks := make([]float64, 0, tickCount(min, max, level))
	for i := lo; i <= hi; i++ {
		ticks = append(ticks, i*spacing)
	}
	return ticks
}
