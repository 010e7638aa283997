package topology

import (
	"testing"

	"github.com/rubenv/topojson"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMesh(t *testing.T) {
	Convey("Given a topology where two districts share one edge", t, func() {
		topo := districtTopology(t)

		Convey("A nil filter keeps every arc exactly once", func() {
			mesh, err := Mesh(topo, "districts", nil)

			So(err, ShouldBeNil)
			lines := mesh.Geometry.MultiLineString
			So(len(lines), ShouldEqual, 3)
		})

		Convey("The interior filter keeps only the shared edge", func() {
			mesh, err := Mesh(topo, "districts", InteriorFilter)

			So(err, ShouldBeNil)
			lines := mesh.Geometry.MultiLineString
			So(len(lines), ShouldEqual, 1)
			So(lines[0], ShouldResemble, [][]float64{{1, 0}, {1, 1}})
		})

		Convey("The exterior filter keeps only unshared edges", func() {
			mesh, err := Mesh(topo, "districts", ExteriorFilter)

			So(err, ShouldBeNil)
			lines := mesh.Geometry.MultiLineString
			So(len(lines), ShouldEqual, 2)
			So(lines[0][0], ShouldResemble, []float64{1, 1})
			So(lines[1][0], ShouldResemble, []float64{1, 0})
		})

		Convey("Filters see the two geometries sharing an arc", func() {
			var pairs [][2]string
			_, err := Mesh(topo, "districts", func(a, b *topojson.Geometry) bool {
				pairs = append(pairs, [2]string{a.ID, b.ID})
				return true
			})

			So(err, ShouldBeNil)
			So(pairs, ShouldResemble, [][2]string{{"1", "2"}, {"1", "1"}, {"2", "2"}})
		})

		Convey("A shared arc follows its first-seen direction", func() {
			mesh, err := Mesh(topo, "districts", InteriorFilter)

			So(err, ShouldBeNil)
			line := mesh.Geometry.MultiLineString[0]
			So(line[0], ShouldResemble, []float64{1, 0})
			So(line[1], ShouldResemble, []float64{1, 1})
		})

		Convey("A missing object is surfaced as an invalid layer", func() {
			mesh, err := Mesh(topo, "regions", nil)

			So(mesh, ShouldBeNil)
			So(err, ShouldHaveSameTypeAs, &InvalidLayerError{})
		})
	})
}
