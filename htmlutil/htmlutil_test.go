package htmlutil_test

import (
	"testing"

	. "github.com/kbeame/ihme-ui/htmlutil"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// figure builds a small fragment shaped like the renderer's output, shared
// by the find helper tests.
func figure() *html.Node {
	return Element("figure", atom.Figure,
		Attr("class", "map"),
		Element("div", atom.Div,
			Element("span", atom.Span, Attr("class", "map_key map_key__horizontal"), "Legend")),
		Element("span", atom.Span, Attr("class", "map_subtitle"), "Subtitle"),
		Element("footer", atom.Footer,
			Element("p", atom.P, Attr("class", "map_source"), "Source: somewhere"),
			Element("p", atom.P, Attr("class", "map_licence"), "Licence")))
}

func TestElement(t *testing.T) {
	Convey("Element attaches values according to their type", t, func() {
		node := Element("div", atom.Div,
			Attr("id", "map-abcd1234"),
			Attr("class", "map"),
			"\n",
			Element("svg", atom.Svg),
			[]*html.Node{Text("a"), Text("b")})

		So(node.Type, ShouldEqual, html.ElementNode)
		So(node.DataAtom, ShouldEqual, atom.Div)
		So(node.Data, ShouldEqual, "div")

		So(node.Attr, ShouldHaveLength, 2)
		So(node.Attr[0], ShouldResemble, html.Attribute{Key: "id", Val: "map-abcd1234"})
		So(node.Attr[1], ShouldResemble, html.Attribute{Key: "class", Val: "map"})

		So(node.FirstChild.Type, ShouldEqual, html.TextNode)
		So(node.FirstChild.NextSibling.DataAtom, ShouldEqual, atom.Svg)
		So(TextContent(node), ShouldEqual, "ab")
	})

	Convey("Element with no values builds a bare element", t, func() {
		node := Element("p", atom.P)
		So(node.FirstChild, ShouldBeNil)
		So(node.Attr, ShouldBeEmpty)
	})
}

func TestAttrAndText(t *testing.T) {
	Convey("Attr and Text build the primitive pieces", t, func() {
		So(Attr("stroke", "#fff"), ShouldResemble, html.Attribute{Key: "stroke", Val: "#fff"})

		txt := Text("hello")
		So(txt.Type, ShouldEqual, html.TextNode)
		So(txt.Data, ShouldEqual, "hello")
	})
}

func TestAttribute(t *testing.T) {
	Convey("Attribute returns the value or an empty string", t, func() {
		node := Element("div", atom.Div, Attr("id", "x"), Attr("aria-hidden", "true"))
		So(Attribute(node, "id"), ShouldEqual, "x")
		So(Attribute(node, "aria-hidden"), ShouldEqual, "true")
		So(Attribute(node, "missing"), ShouldEqual, "")
	})
}

func TestHasAttributes(t *testing.T) {
	Convey("HasAttributes requires every value to match", t, func() {
		node := Element("div", atom.Div, Attr("id", "x"), Attr("class", "map"))
		So(HasAttributes(node, nil), ShouldBeTrue)
		So(HasAttributes(node, map[string]string{"id": "x"}), ShouldBeTrue)
		So(HasAttributes(node, map[string]string{"id": "x", "class": "map"}), ShouldBeTrue)
		So(HasAttributes(node, map[string]string{"id": "y", "class": "map"}), ShouldBeFalse)
	})
}

func TestHasClass(t *testing.T) {
	Convey("HasClass matches whole names in the class list", t, func() {
		node := Element("div", atom.Div, Attr("class", "map_key map_key__horizontal"))
		So(HasClass(node, "map_key"), ShouldBeTrue)
		So(HasClass(node, "map_key__horizontal"), ShouldBeTrue)
		So(HasClass(node, "map"), ShouldBeFalse)
		So(HasClass(Element("div", atom.Div), "map"), ShouldBeFalse)
	})
}

func TestFindNode(t *testing.T) {
	Convey("FindNode returns the first match in document order", t, func() {
		first := FindNode(figure(), atom.Span)
		So(first, ShouldNotBeNil)
		So(HasClass(first, "map_key"), ShouldBeTrue)
	})

	Convey("FindNode returns nil when nothing matches", t, func() {
		So(FindNode(figure(), atom.Table), ShouldBeNil)
	})
}

func TestFindNodeWithAttributes(t *testing.T) {
	Convey("FindNodeWithAttributes skips nodes whose attributes differ", t, func() {
		node := FindNodeWithAttributes(figure(), atom.Span, map[string]string{"class": "map_subtitle"})
		So(node, ShouldNotBeNil)
		So(TextContent(node), ShouldEqual, "Subtitle")

		So(FindNodeWithAttributes(figure(), atom.Span, map[string]string{"class": "absent"}), ShouldBeNil)
	})
}

func TestFindNodes(t *testing.T) {
	Convey("FindNodes collects every match in document order", t, func() {
		spans := FindNodes(figure(), atom.Span)
		So(spans, ShouldHaveLength, 2)
		So(HasClass(spans[0], "map_key"), ShouldBeTrue)
		So(HasClass(spans[1], "map_subtitle"), ShouldBeTrue)

		So(FindNodes(figure(), atom.Table), ShouldBeNil)
	})
}

func TestFindNodesWithClass(t *testing.T) {
	Convey("FindNodesWithClass filters matches by class", t, func() {
		ps := FindNodesWithClass(figure(), atom.P, "map_source")
		So(ps, ShouldHaveLength, 1)
		So(TextContent(ps[0]), ShouldEqual, "Source: somewhere")
	})
}

func TestTextContent(t *testing.T) {
	Convey("TextContent concatenates nested text and trims newlines", t, func() {
		node := Element("div", atom.Div,
			"\n",
			Element("p", atom.P, "mortality "),
			Element("div", atom.Div, Element("p", atom.P, "rate")),
			"\n")
		So(TextContent(node), ShouldEqual, "mortality rate")
	})
}

func TestApproximateTextWidth(t *testing.T) {
	Convey("ApproximateTextWidth should scale with text length and font size", t, func() {

		short := ApproximateTextWidth("abc", 14)
		long := ApproximateTextWidth("abcdefgh", 14)
		So(short, ShouldBeGreaterThan, 0)
		So(long, ShouldBeGreaterThan, short)

		small := ApproximateTextWidth("some text", 10)
		big := ApproximateTextWidth("some text", 20)
		So(big, ShouldEqual, small*2)
	})

	Convey("ApproximateTextWidth should assume the default font size when given zero", t, func() {

		So(ApproximateTextWidth("x", 0), ShouldEqual, ApproximateTextWidth("x", DefaultFontSize))
	})

	Convey("Wide characters should measure wider than narrow ones", t, func() {

		So(ApproximateTextWidth("www", 14), ShouldBeGreaterThan, ApproximateTextWidth("iii", 14))
	})
}
