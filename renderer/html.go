package renderer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ONSdigital/go-ns/log"
	"github.com/kbeame/ihme-ui/health"
	h "github.com/kbeame/ihme-ui/htmlutil"
	"github.com/kbeame/ihme-ui/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Marker text stands in for the svgs while the figure is serialised. The svgs
// are spliced in afterwards so html.Render does not escape their markup.
const (
	mapMarker    = "[map svg]"
	legendMarker = "[legend svg]"
)

var (
	newLine     = regexp.MustCompile(`\n`)
	footnoteRef = regexp.MustCompile(`\[[0-9]+]`)
)

// user-facing strings, kept together for when translation happens
const (
	sourceText         = "Source: "
	notesText          = "Notes"
	footnoteHiddenText = "Footnote "
	zoomInText         = "Zoom in"
	zoomOutText        = "Zoom out"
)

// RenderHTML returns an html figure with caption and footer, wrapping the svg
// map, the legend and (when requested) zoom controls for the host page to bind.
func RenderHTML(svgRequest *SVGRequest) ([]byte, error) {
	defer health.TrackTime(time.Now(), "renderer.RenderHTML")
	request := svgRequest.request

	figure := buildFigure(request)
	container := h.Element("div", atom.Div, h.Attr("class", "map_container"))
	if request.IncludeZoomControls {
		container.AppendChild(zoomControls(request))
	}
	addMapDivs(request, container)
	figure.AppendChild(container)
	figure.AppendChild(buildFooter(request))
	figure.AppendChild(h.Text("\n"))

	var buf bytes.Buffer
	html.Render(&buf, figure)
	buf.WriteString("\n")

	markup := strings.Replace(buf.String(), mapMarker, RenderSVG(svgRequest), 1)
	if strings.Contains(markup, legendMarker) {
		markup = strings.Replace(markup, legendMarker, RenderLegend(svgRequest), 1)
	}
	return []byte(markup), nil
}

// buildFigure creates the figure element with its id and caption. The title
// and subtitle share the caption, separated by a line break.
func buildFigure(request *models.RenderRequest) *html.Node {
	figure := h.Element("figure", atom.Figure,
		h.Attr("class", "figure"),
		h.Attr("id", mapID(request)),
		"\n")
	if request.Title == "" && request.Subtitle == "" {
		return figure
	}

	caption := h.Element("figcaption", atom.Figcaption,
		h.Attr("class", "map__caption"),
		richText(request, request.Title))
	if request.Subtitle != "" {
		caption.AppendChild(h.Element("br", atom.Br))
		caption.AppendChild(h.Element("span", atom.Span,
			h.Attr("class", "map__subtitle"),
			richText(request, request.Subtitle)))
	}
	figure.AppendChild(caption)
	figure.AppendChild(h.Text("\n"))
	return figure
}

// mapID returns the figure id, which zoom buttons and footnote anchors hang off.
func mapID(request *models.RenderRequest) string {
	return "map-" + request.Filename
}

// footnoteID returns the anchor id for footnote n of the given map.
func footnoteID(request *models.RenderRequest, n int) string {
	return fmt.Sprintf("%s-note-%d", mapID(request), n)
}

// zoomControls builds the zoom in/out buttons. Each button carries a data-map
// attribute naming the figure it belongs to so the host page can bind it.
func zoomControls(request *models.RenderRequest) *html.Node {
	button := func(direction, label, text string) *html.Node {
		return h.Element("button", atom.Button,
			h.Attr("type", "button"),
			h.Attr("class", "map_controls__zoom map_controls__zoom--"+direction),
			h.Attr("data-map", mapID(request)),
			h.Attr("aria-label", label),
			text)
	}
	return h.Element("div", atom.Div,
		h.Attr("class", "map_controls"),
		button("in", zoomInText, "+"),
		button("out", zoomOutText, "-"))
}

// addMapDivs adds a div holding marker text for the map svg, with the legend
// div before or after it as requested.
func addMapDivs(request *models.RenderRequest, container *html.Node) {
	position := ""
	if request.Choropleth != nil {
		position = request.Choropleth.HorizontalLegendPosition
	}
	if position == models.LegendPositionBefore {
		container.AppendChild(legendDiv())
	}
	container.AppendChild(h.Element("div", atom.Div, h.Attr("class", "map"), mapMarker))
	if position == models.LegendPositionAfter {
		container.AppendChild(legendDiv())
	}
}

func legendDiv() *html.Node {
	return h.Element("div", atom.Div, h.Attr("class", "map_key map_key__horizontal"), legendMarker)
}

// buildFooter builds the footer holding the licence, the source and the
// numbered footnote list that richText links point at.
func buildFooter(request *models.RenderRequest) *html.Node {
	parts := []interface{}{h.Attr("class", "figure__footer"), "\n"}
	if request.Licence != "" {
		parts = append(parts,
			h.Element("p", atom.P, h.Attr("class", "figure__licence"), request.Licence),
			"\n")
	}
	if request.Source != "" {
		source := h.Element("p", atom.P, h.Attr("class", "figure__source"), sourceText)
		if request.SourceLink != "" {
			source.AppendChild(h.Element("a", atom.A, h.Attr("href", request.SourceLink), request.Source))
		} else {
			source.AppendChild(h.Text(request.Source))
		}
		parts = append(parts, source, "\n")
	}
	if len(request.Footnotes) > 0 {
		list := h.Element("ol", atom.Ol, h.Attr("class", "figure__footnotes"), "\n")
		for i, note := range request.Footnotes {
			list.AppendChild(h.Element("li", atom.Li,
				h.Attr("id", footnoteID(request, i+1)),
				h.Attr("class", "figure__footnote-item"),
				richText(request, note)))
			list.AppendChild(h.Text("\n"))
		}
		parts = append(parts,
			h.Element("p", atom.P, h.Attr("class", "figure__notes"), notesText), "\n",
			list, "\n")
	}
	return h.Element("footer", atom.Footer, parts...)
}

// richText converts a request value into html nodes, expanding newlines to
// <br /> and footnote references like [1] into links to the footer list.
func richText(request *models.RenderRequest, value string) []*html.Node {
	breaks := newLine.MatchString(value)
	links := len(request.Footnotes) > 0 && footnoteRef.MatchString(value)
	if !breaks && !links {
		return []*html.Node{h.Text(value)}
	}

	markup := value
	if breaks {
		markup = newLine.ReplaceAllLiteralString(markup, "<br />")
	}
	if links {
		for i := range request.Footnotes {
			n := i + 1
			link := fmt.Sprintf(`<a href="#%s" class="footnote__link"><span class="visuallyhidden">%s</span>%d</a>`,
				footnoteID(request, n), footnoteHiddenText, n)
			markup = strings.Replace(markup, fmt.Sprintf("[%d]", n), link, -1)
		}
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		log.ErrorC(request.Filename, err, log.Data{"value": value})
		return []*html.Node{h.Text(value)}
	}
	return nodes
}
