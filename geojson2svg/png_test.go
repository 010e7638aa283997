package geojson2svg_test

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/kbeame/ihme-ui/geojson2svg"
	"github.com/paulmach/go.geojson"
	. "github.com/smartystreets/goconvey/convey"
)

func rasterizer(width, height int) *geojson2svg.Rasterizer {
	pg := geojson2svg.NewPathGenerator(1, [2]float64{0, 0}, geojson2svg.ViewportClip(float64(width), float64(height)))
	return geojson2svg.NewRasterizer(pg, width, height)
}

func Test_ConvertShouldProduceADecodablePngOfTheRightSize(t *testing.T) {
	Convey("Should produce a png of the requested dimensions", t, func() {

		r := rasterizer(100, 80)
		b, err := r.Convert()
		So(err, ShouldBeNil)

		img, err := png.Decode(bytes.NewReader(b))
		So(err, ShouldBeNil)
		So(img.Bounds().Dx(), ShouldEqual, 100)
		So(img.Bounds().Dy(), ShouldEqual, 80)

		Convey("And an empty image should be white", func() {
			red, green, blue, _ := img.At(50, 40).RGBA()
			So(red, ShouldEqual, 0xffff)
			So(green, ShouldEqual, 0xffff)
			So(blue, ShouldEqual, 0xffff)
		})
	})
}

func Test_ConvertShouldPaintFilledGeometry(t *testing.T) {
	Convey("Should fill the interior of a polygon with the layer colour", t, func() {

		g, err := geojson.UnmarshalGeometry([]byte(`{"type": "Polygon", "coordinates": [[[10,10], [90,10], [90,70], [10,70], [10,10]]]}`))
		So(err, ShouldBeNil)

		r := rasterizer(100, 80)
		r.AppendFill(g, color.RGBA{R: 0xb2, G: 0x18, B: 0x2b, A: 0xff})
		b, err := r.Convert()
		So(err, ShouldBeNil)

		img, err := png.Decode(bytes.NewReader(b))
		So(err, ShouldBeNil)

		red, green, blue, _ := img.At(50, 40).RGBA()
		So(red, ShouldBeGreaterThan, green)
		So(red, ShouldBeGreaterThan, blue)
		So(red, ShouldBeGreaterThan, uint32(0x9000))

		Convey("And leave pixels outside the polygon white", func() {
			red, green, blue, _ := img.At(2, 2).RGBA()
			So(red, ShouldEqual, 0xffff)
			So(green, ShouldEqual, 0xffff)
			So(blue, ShouldEqual, 0xffff)
		})
	})
}

func Test_ConvertShouldPaintStrokedGeometry(t *testing.T) {
	Convey("Should stroke a line through the image", t, func() {

		g, err := geojson.UnmarshalGeometry([]byte(`{"type": "LineString", "coordinates": [[10,40], [90,40]]}`))
		So(err, ShouldBeNil)

		r := rasterizer(100, 80)
		r.AppendStroke(g, color.Black, 3)
		b, err := r.Convert()
		So(err, ShouldBeNil)

		img, err := png.Decode(bytes.NewReader(b))
		So(err, ShouldBeNil)

		red, green, blue, _ := img.At(50, 40).RGBA()
		So(red, ShouldBeLessThan, uint32(0x4000))
		So(green, ShouldBeLessThan, uint32(0x4000))
		So(blue, ShouldBeLessThan, uint32(0x4000))
	})
}

func Test_ConvertBase64ShouldEncodeThePng(t *testing.T) {
	Convey("Should base 64 encode the png output", t, func() {

		r := rasterizer(10, 10)
		s, err := r.ConvertBase64()
		So(err, ShouldBeNil)

		b, err := base64.StdEncoding.DecodeString(s)
		So(err, ShouldBeNil)

		img, err := png.Decode(bytes.NewReader(b))
		So(err, ShouldBeNil)
		So(img.Bounds().Dx(), ShouldEqual, 10)
	})
}

func Test_IncludeFallbackImageShouldWrapContentInASwitch(t *testing.T) {
	Convey("Should wrap the svg content in a switch with a png fallback", t, func() {

		r := rasterizer(10, 10)
		result := r.IncludeFallbackImage(`width="10" height="10"`, `<path d="M0.000000 0.000000"/>`)

		So(result, ShouldStartWith, `<svg width="10" height="10">`)
		So(result, ShouldContainSubstring, "<switch>")
		So(result, ShouldContainSubstring, `<path d="M0.000000 0.000000"/>`)
		So(result, ShouldContainSubstring, "<foreignObject>")
		So(result, ShouldContainSubstring, "data:image/png;base64,")

		Convey("And the embedded png should be decodable", func() {
			start := strings.Index(result, "base64,") + len("base64,")
			end := strings.Index(result[start:], `"`) + start
			b, err := base64.StdEncoding.DecodeString(result[start:end])
			So(err, ShouldBeNil)

			_, err = png.Decode(bytes.NewReader(b))
			So(err, ShouldBeNil)
		})
	})
}
