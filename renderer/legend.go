package renderer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kbeame/ihme-ui/colour"
	"github.com/kbeame/ihme-ui/health"
	"github.com/kbeame/ihme-ui/htmlutil"
	"github.com/kbeame/ihme-ui/models"
)

// legendHeight is the fixed height of the key svg in pixels.
const legendHeight = 90

// keySegment is one coloured band of the key with its value range. span is
// the fraction of the key width the band occupies.
type keySegment struct {
	lower, upper float64
	colour       string
	span         float64
}

// legendLayout is the measured geometry of the horizontal key.
type legendLayout struct {
	segments []keySegment
	width    float64 // key width in pixels
	x        float64 // x offset of the key within the svg

	refPos      float64 // reference tick position as a fraction of the key width
	refLeft     string  // label drawn to the left of the reference tick
	refLeftLen  float64
	refRight    string
	refRightLen float64
}

// RenderLegend creates an svg containing a horizontally-oriented key for the
// choropleth, sized against the same width as the map svg. It returns an
// empty string when the request has no breaks or no joined data to key.
func RenderLegend(svgRequest *SVGRequest) string {
	defer health.TrackTime(time.Now(), "renderer.RenderLegend")

	c := svgRequest.component
	request := svgRequest.request
	if c == nil || !c.Renderable() || request.Choropleth == nil || len(request.Choropleth.Breaks) == 0 {
		return ""
	}
	values := c.Values()
	if len(values) == 0 {
		return ""
	}

	svgWidth := svgRequest.width
	layout := layoutLegend(svgWidth, request, values)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg id="%s-legend-horizontal" class="map_key_horizontal" width="%.f" height="%d" viewBox="0 0 %.f %d">`,
		request.Filename, svgWidth, legendHeight, svgWidth, legendHeight)
	fmt.Fprintf(&b, `<g id="%s-legend-horizontal-container">`, request.Filename)
	writeLegendTitle(&b, request, svgWidth)
	fmt.Fprintf(&b, `<g id="%s-legend-horizontal-key" transform="translate(%f, 20)">`, request.Filename, layout.x)

	x := 0.0
	for _, seg := range layout.segments {
		w := seg.span * layout.width
		fmt.Fprintf(&b, `<rect class="keyColour" x="%f" width="%f" height="8" style="stroke: black; stroke-width: 0.5; fill: %s;"></rect>`,
			x, w, seg.colour)
		x += w
	}

	x = 0.0
	for _, seg := range layout.segments {
		writeLegendTick(&b, x, seg.lower)
		x += seg.span * layout.width
	}
	writeLegendTick(&b, x, layout.segments[len(layout.segments)-1].upper)

	if request.Choropleth.ReferenceValueText != "" {
		writeLegendRefTick(&b, layout, svgWidth)
	}
	if request.Choropleth.MissingValueColor != "" {
		writeLegendMissing(&b, request.Choropleth.MissingValueColor)
	}
	b.WriteString(`</g></g></svg>`)
	return b.String()
}

// buildSegments converts the configured breaks into contiguous segments in
// ascending order. The first segment stretches down to the smallest joined
// value when that sits below the first break; the last segment runs to the
// configured upper bound, or to the data maximum when the bound sits below
// the last break.
func buildSegments(ch *models.Choropleth, values []float64) ([]keySegment, float64, float64) {
	breaks := colour.SortBreaks(ch.Breaks, true)

	lowest := math.Min(values[0], breaks[0].LowerBound)
	highest := ch.UpperBound
	if highest < breaks[len(breaks)-1].LowerBound {
		highest = values[len(values)-1]
	}
	total := highest - lowest

	segments := make([]keySegment, len(breaks))
	for i, brk := range breaks {
		seg := keySegment{lower: brk.LowerBound, upper: highest, colour: brk.Colour}
		if i+1 < len(breaks) {
			seg.upper = breaks[i+1].LowerBound
		}
		segments[i] = seg
	}
	segments[0].lower = lowest
	for i := range segments {
		segments[i].span = (segments[i].upper - segments[i].lower) / total
	}
	return segments, lowest, total
}

// layoutLegend measures the key: nine tenths of the svg width, centred,
// shrunk when the bound labels or the reference labels would overflow the
// svg.
func layoutLegend(svgWidth float64, request *models.RenderRequest, values []float64) *legendLayout {
	ch := request.Choropleth
	layout := &legendLayout{width: svgWidth * 0.9}
	layout.x = (svgWidth - layout.width) / 2

	var lowest, total float64
	layout.segments, lowest, total = buildSegments(ch, values)

	// half of each bound label hangs outside the key
	first := layout.segments[0]
	last := layout.segments[len(layout.segments)-1]
	leftHang := htmlutil.ApproximateTextWidth(fmt.Sprintf("%g", first.lower), request.FontSize) / 2
	rightHang := htmlutil.ApproximateTextWidth(fmt.Sprintf("%g", last.upper), request.FontSize) / 2

	if ch.ReferenceValueText != "" {
		layout.refPos = (ch.ReferenceValue - lowest) / total

		// the longer label goes on the side of the tick with more room
		long, short := ch.ReferenceValueText, fmt.Sprintf("%g", ch.ReferenceValue)
		if htmlutil.ApproximateTextWidth(short, request.FontSize) > htmlutil.ApproximateTextWidth(long, request.FontSize) {
			long, short = short, long
		}
		layout.refLeft, layout.refRight = long, short
		if layout.refPos < 0.5 {
			layout.refLeft, layout.refRight = short, long
		}
		layout.refLeftLen = htmlutil.ApproximateTextWidth(layout.refLeft, request.FontSize)
		layout.refRightLen = htmlutil.ApproximateTextWidth(layout.refRight, request.FontSize)

		// widen the overhang when a reference label reaches past the key
		refX := layout.width * layout.refPos
		if refX-layout.refLeftLen < -leftHang {
			leftHang = math.Abs(refX - layout.refLeftLen)
		}
		if refX+layout.refRightLen-layout.width > rightHang {
			rightHang = refX + layout.refRightLen - layout.width
		}
	}

	if layout.width+leftHang+rightHang > svgWidth {
		layout.width = svgWidth - (leftHang + rightHang)
		layout.x = leftHang
	}
	return layout
}

// writeLegendTitle writes the key title (the value prefix and suffix),
// squeezed to fit when it would overflow the svg.
func writeLegendTitle(b *strings.Builder, request *models.RenderRequest, svgWidth float64) {
	title := strings.TrimSpace(request.Choropleth.ValuePrefix + " " + request.Choropleth.ValueSuffix)
	squeeze := ""
	if htmlutil.ApproximateTextWidth(title, request.FontSize) >= svgWidth {
		squeeze = fmt.Sprintf(` textLength="%.f" lengthAdjust="spacingAndGlyphs"`, svgWidth-2)
	}
	fmt.Fprintf(b, `<text x="%f" y="6" dy=".5em" style="text-anchor: middle;" class="keyText"%s>%s</text>`,
		svgWidth/2, squeeze, title)
}

// writeLegendTick draws a boundary tick labelled with its value.
func writeLegendTick(b *strings.Builder, x, value float64) {
	fmt.Fprintf(b, `<g class="tick" transform="translate(%f, 0)">`, x)
	b.WriteString(`<line x2="0" y2="15" style="stroke: Black; stroke-width: 1;"></line>`)
	fmt.Fprintf(b, `<text x="0" y="18" dy=".74em" style="text-anchor: middle;" class="keyText">%g</text>`, value)
	b.WriteString(`</g>`)
}

// writeLegendRefTick draws the reference value tick with a label on each
// side, squeezing either label when it would run outside the svg.
func writeLegendRefTick(b *strings.Builder, layout *legendLayout, svgWidth float64) {
	x := layout.width * layout.refPos
	fmt.Fprintf(b, `<g class="tick" transform="translate(%f, 0)">`, x)
	b.WriteString(`<line x2="0" y1="8" y2="45" style="stroke: DimGrey; stroke-width: 1;"></line>`)

	squeeze := ""
	if layout.refLeftLen > x+layout.x {
		squeeze = fmt.Sprintf(` textLength="%.f" lengthAdjust="spacingAndGlyphs"`, x+layout.x-1)
	}
	fmt.Fprintf(b, `<text x="0" y="33" dx="-0.1em" dy=".74em" style="text-anchor: end; fill: DimGrey;" class="keyText"%s>%s</text>`,
		squeeze, layout.refLeft)

	squeeze = ""
	if layout.refRightLen > svgWidth-(x+layout.x) {
		squeeze = fmt.Sprintf(` textLength="%.f" lengthAdjust="spacingAndGlyphs"`, svgWidth-(x+layout.x)-2)
	}
	fmt.Fprintf(b, `<text x="0" y="33" dx="0.1em" dy=".74em" style="text-anchor: start; fill: DimGrey;" class="keyText"%s>%s</text>`,
		squeeze, layout.refRight)
	b.WriteString(`</g>`)
}

// writeLegendMissing draws the swatch for regions without data.
func writeLegendMissing(b *strings.Builder, fill string) {
	b.WriteString(`<g class="missingColour" transform="translate(0, 55)">`)
	fmt.Fprintf(b, `<rect class="keyColour" width="8" height="8" style="stroke: black; stroke-width: 0.8; fill: %s;"></rect>`, fill)
	fmt.Fprintf(b, `<text x="12" dy=".55em" style="text-anchor: start; fill: DimGrey;" class="keyText">%s</text>`, MissingDataText)
	b.WriteString(`</g>`)
}
