package geojson2svg

// clipRing clips a closed ring to the extent with the Sutherland-Hodgman
// algorithm, cutting against one rectangle edge at a time. The ring is not
// explicitly re-closed; the path writers close rings themselves.
func clipRing(ring [][2]float64, e ClipExtent) [][2]float64 {
	inside := [4]func(p [2]float64) bool{
		func(p [2]float64) bool { return p[0] >= e[0][0] },
		func(p [2]float64) bool { return p[0] <= e[1][0] },
		func(p [2]float64) bool { return p[1] >= e[0][1] },
		func(p [2]float64) bool { return p[1] <= e[1][1] },
	}
	cross := [4]func(a, b [2]float64) [2]float64{
		func(a, b [2]float64) [2]float64 { return atX(a, b, e[0][0]) },
		func(a, b [2]float64) [2]float64 { return atX(a, b, e[1][0]) },
		func(a, b [2]float64) [2]float64 { return atY(a, b, e[0][1]) },
		func(a, b [2]float64) [2]float64 { return atY(a, b, e[1][1]) },
	}

	out := ring
	for edge := 0; edge < 4; edge++ {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = nil
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case inside[edge](cur):
				if !inside[edge](prev) {
					out = append(out, cross[edge](prev, cur))
				}
				out = append(out, cur)
			case inside[edge](prev):
				out = append(out, cross[edge](prev, cur))
			}
			prev = cur
		}
	}
	return out
}

// atX returns the point where segment a-b crosses the vertical line x.
func atX(a, b [2]float64, x float64) [2]float64 {
	t := (x - a[0]) / (b[0] - a[0])
	return [2]float64{x, a[1] + t*(b[1]-a[1])}
}

// atY returns the point where segment a-b crosses the horizontal line y.
func atY(a, b [2]float64, y float64) [2]float64 {
	t := (y - a[1]) / (b[1] - a[1])
	return [2]float64{a[0] + t*(b[0]-a[0]), y}
}

// clipPolyline splits an open line into the runs that remain inside the
// extent, trimming boundary-crossing segments with Liang-Barsky.
func clipPolyline(points [][2]float64, e ClipExtent) [][][2]float64 {
	var runs [][][2]float64
	var run [][2]float64

	for i := 0; i+1 < len(points); i++ {
		a, b, ok := clipSegment(points[i], points[i+1], e)
		if !ok {
			if len(run) > 1 {
				runs = append(runs, run)
			}
			run = nil
			continue
		}
		if len(run) == 0 {
			run = append(run, a)
		} else if run[len(run)-1] != a {
			runs = append(runs, run)
			run = [][2]float64{a}
		}
		run = append(run, b)
	}
	if len(run) > 1 {
		runs = append(runs, run)
	}
	return runs
}

// clipSegment returns the portion of segment a-b inside the extent,
// reporting false when the segment misses it entirely.
func clipSegment(a, b [2]float64, e ClipExtent) ([2]float64, [2]float64, bool) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a[0] - e[0][0], e[1][0] - a[0], a[1] - e[0][1], e[1][1] - a[1]}

	t0, t1 := 0.0, 1.0
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return a, b, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return [2]float64{a[0] + t0*dx, a[1] + t0*dy},
		[2]float64{a[0] + t1*dx, a[1] + t1*dy},
		true
}
