// math/geom.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2d

// Points in the envelope plots are [2]float64s: x is the mode's abscissa
// channel and y its ordinate. float64 is used throughout since the
// envelopes span values up to ~8000 ft/min and the containment test below
// compares cross products against zero exactly.

// a-b
func Sub2d(a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{a[0] - b[0], a[1] - b[1]}
}

// Cross2d returns the z component of the cross product of a and b; it is
// positive when b is counter-clockwise from a.
func Cross2d(a, b [2]float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Lerp2d linearly interpolates x of the way between a and b.
func Lerp2d(x float64, a [2]float64, b [2]float64) [2]float64 {
	return [2]float64{Lerp(x, a[0], b[0]), Lerp(x, a[1], b[1])}
}

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float64
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	// Degenerate bounds
	return Extent2D{P0: [2]float64{1e30, 1e30}, P1: [2]float64{-1e30, -1e30}}
}

// Extent2DFromPoints returns an Extent2D that bounds all of the provided
// points.
func Extent2DFromPoints(pts [][2]float64) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

func (e Extent2D) Empty() bool {
	return e.P0[0] > e.P1[0] || e.P0[1] > e.P1[1]
}

func (e Extent2D) Width() float64 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float64 {
	return e.P1[1] - e.P0[1]
}

func Union(e Extent2D, p [2]float64) Extent2D {
	e.P0[0] = min(e.P0[0], p[0])
	e.P0[1] = min(e.P0[1], p[1])
	e.P1[0] = max(e.P1[0], p[0])
	e.P1[1] = max(e.P1[1], p[1])
	return e
}

// UnionExtents returns the extent that bounds both a and b.
func UnionExtents(a, b Extent2D) Extent2D {
	if b.Empty() {
		return a
	}
	return Union(Union(a, b.P0), b.P1)
}

///////////////////////////////////////////////////////////////////////////
// Polygons

// PointInConvexPolygon checks whether p is inside the polygon given by
// pts, which must be convex and listed in clockwise order; the edge from
// pts[len(pts)-1] to pts[0] is included. A point is outside as soon as it
// lies strictly to the left of any directed edge. Points exactly on an
// edge (zero cross product) count as inside and no tolerance is applied.
// A point with a NaN coordinate is never inside.
//
// For a non-convex polygon the set of points that pass is the polygon's
// kernel, not the polygon itself, and a counter-clockwise polygon never
// contains anything. Polygons with fewer than three vertices contain
// nothing.
func PointInConvexPolygon(p [2]float64, pts [][2]float64) bool {
	if len(pts) < 3 {
		return false
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if !(Cross2d(Sub2d(b, a), Sub2d(p, a)) <= 0) {
			return false
		}
	}
	return true
}

// PointInPolygon checks whether the given point is inside the given polygon
// using the even-odd rule; it assumes that the last vertex does not repeat
// the first one, and so includes the edge from pts[len(pts)-1] to pts[0] in
// its test. Unlike PointInConvexPolygon it handles arbitrary simple
// polygons of either winding.
func PointInPolygon(p [2]float64, pts [][2]float64) bool {
	inside := false
	for i := 0; i < len(pts); i++ {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		if (p0[1] <= p[1] && p[1] < p1[1]) || (p1[1] <= p[1] && p[1] < p0[1]) {
			x := p0[0] + (p[1]-p0[1])*(p1[0]-p0[0])/(p1[1]-p0[1])
			if x > p[0] {
				inside = !inside
			}
		}
	}
	return inside
}

// SignedArea returns the area of the polygon given by pts via the
// shoelace formula. It is negative for clockwise polygons and positive
// for counter-clockwise ones.
func SignedArea(pts [][2]float64) float64 {
	var a float64
	for i := range pts {
		a += Cross2d(pts[i], pts[(i+1)%len(pts)])
	}
	return a / 2
}

// IsConvex reports whether the polygon turns the same way (or goes
// straight) at every vertex. Collinear runs are allowed.
func IsConvex(pts [][2]float64) bool {
	if len(pts) < 3 {
		return false
	}
	var left, right bool
	for i := range pts {
		a, b, c := pts[i], pts[(i+1)%len(pts)], pts[(i+2)%len(pts)]
		t := Cross2d(Sub2d(b, a), Sub2d(c, b))
		if t > 0 {
			left = true
		} else if t < 0 {
			right = true
		}
		if left && right {
			return false
		}
	}
	return true
}
