package zoom

import (
	"testing"

	"github.com/kbeame/ihme-ui/projection"
	. "github.com/smartystreets/goconvey/convey"
)

var districtBounds = projection.Bounds{{0, 0}, {2, 1}}

func fitted() *Controller {
	return New(600, 400, districtBounds, Settings{MaxZoom: 1200})
}

func TestNew(t *testing.T) {
	Convey("Given a controller fitted to 2x1 bounds in a 600x400 viewport", t, func() {
		c := fitted()

		Convey("It starts at the fitted scale with a centering translate", func() {
			So(c.Scale(), ShouldEqual, 300)
			So(c.ScaleBase(), ShouldEqual, 300)
			So(c.Translate()[0], ShouldEqual, 0)
			So(c.Translate()[1], ShouldEqual, 50)
		})

		Convey("The scale extent is fixed from the initial base scale", func() {
			So(c.Extent()[0], ShouldEqual, 300)
			So(c.Extent()[1], ShouldEqual, 1200)
		})
	})
}

func TestZoomButtons(t *testing.T) {
	Convey("Given a fitted controller", t, func() {
		c := fitted()

		Convey("ZoomIn multiplies the scale by the step", func() {
			c.ZoomIn()

			So(c.Scale(), ShouldAlmostEqual, 330)

			Convey("Keeping the viewport centre on the same geographic point", func() {
				center := projection.CenterPoint(600, 400, c.Scale(), c.Translate())
				So(center[0], ShouldAlmostEqual, 1)
				So(center[1], ShouldAlmostEqual, 0.5)
				So(c.Translate()[0], ShouldAlmostEqual, -30)
				So(c.Translate()[1], ShouldAlmostEqual, 35)
			})
		})

		Convey("ZoomOut after ZoomIn returns to the fitted transform", func() {
			c.ZoomIn()
			c.ZoomOut()

			So(c.Scale(), ShouldAlmostEqual, 300)
			So(c.Translate()[0], ShouldAlmostEqual, 0)
			So(c.Translate()[1], ShouldAlmostEqual, 50)
		})

		Convey("ZoomOut at the fitted state clamps to the extent floor", func() {
			c.ZoomOut()

			So(c.Scale(), ShouldEqual, 300)
			So(c.Translate()[0], ShouldEqual, 0)
			So(c.Translate()[1], ShouldEqual, 50)
		})

		Convey("Repeated ZoomIn stops at the extent ceiling", func() {
			for i := 0; i < 30; i++ {
				c.ZoomIn()
			}

			So(c.Scale(), ShouldEqual, 1200)
		})

		Convey("The default step applies when none is configured", func() {
			d := New(600, 400, districtBounds, Settings{})
			d.ZoomIn()

			So(d.Scale(), ShouldAlmostEqual, 330)
		})
	})
}

func TestGesture(t *testing.T) {
	Convey("Given a fitted controller", t, func() {
		c := fitted()

		Convey("A gesture adopts its translate and clamps its scale", func() {
			c.Gesture(5000, [2]float64{3, 4})

			So(c.Scale(), ShouldEqual, 1200)
			So(c.Translate()[0], ShouldEqual, 3)
			So(c.Translate()[1], ShouldEqual, 4)

			c.Gesture(10, [2]float64{-7, 2})

			So(c.Scale(), ShouldEqual, 300)
			So(c.Translate()[0], ShouldEqual, -7)
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given a controller that has been zoomed and panned", t, func() {
		c := fitted()
		c.ZoomIn()
		c.Gesture(700, [2]float64{-120, 33})

		Convey("Reset returns to the fitted transform", func() {
			c.Reset()

			So(c.Scale(), ShouldEqual, 300)
			So(c.Translate()[0], ShouldEqual, 0)
			So(c.Translate()[1], ShouldEqual, 50)

			Convey("And a second Reset changes nothing", func() {
				c.Reset()

				So(c.Scale(), ShouldEqual, 300)
				So(c.Translate()[0], ShouldEqual, 0)
				So(c.Translate()[1], ShouldEqual, 50)
			})
		})
	})
}

func TestRefit(t *testing.T) {
	Convey("Given a controller zoomed in twice", t, func() {
		c := fitted()
		c.ZoomIn()
		c.ZoomIn()

		Convey("Halving the viewport preserves the relative zoom factor", func() {
			c.Refit(300, 200, districtBounds, false)

			So(c.ScaleBase(), ShouldEqual, 150)
			So(c.Scale(), ShouldAlmostEqual, 181.5)

			Convey("The geographic centre stays at the viewport centre", func() {
				center := projection.CenterPoint(300, 200, c.Scale(), c.Translate())
				So(center[0], ShouldAlmostEqual, 1)
				So(center[1], ShouldAlmostEqual, 0.5)
			})

			Convey("The scale extent is not re-derived", func() {
				So(c.Extent()[0], ShouldEqual, 300)
				So(c.Extent()[1], ShouldEqual, 1200)
			})
		})
	})

	Convey("Given a fitted controller whose bounds change structurally", t, func() {
		c := fitted()
		c.Refit(600, 400, projection.Bounds{{0, 0}, {4, 1}}, true)

		Convey("The transform re-centres on the new bounds", func() {
			So(c.ScaleBase(), ShouldEqual, 150)
			So(c.Scale(), ShouldEqual, 150)
			So(c.Translate()[0], ShouldEqual, 0)
			So(c.Translate()[1], ShouldEqual, 125)
		})
	})

	Convey("Given a controller built for a zero-width viewport", t, func() {
		c := New(0, 400, districtBounds, Settings{})

		Convey("The scale is 0 and zoom buttons do nothing", func() {
			So(c.Scale(), ShouldEqual, 0)

			c.ZoomIn()
			So(c.Scale(), ShouldEqual, 0)
		})

		Convey("Refit to a usable viewport recovers the fitted state", func() {
			c.Refit(600, 400, districtBounds, false)

			So(c.Scale(), ShouldEqual, 300)
			So(c.Translate()[0], ShouldEqual, 0)
			So(c.Translate()[1], ShouldEqual, 50)
		})
	})
}

func TestZoomStepScenario(t *testing.T) {
	Convey("A single ZoomIn with step 1.1 from base 2.0 yields 2.2", t, func() {
		c := New(2, 2, projection.Bounds{{0, 0}, {1, 1}}, Settings{MaxZoom: 100})

		So(c.Scale(), ShouldEqual, 2)

		c.ZoomIn()
		So(c.Scale(), ShouldAlmostEqual, 2.2)
	})
}
