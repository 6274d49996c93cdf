// Package geom provides the fixed-point 2D geometry used by lightning infill.
//
// Coordinates are integer micrometres, matching the units a slicer hands over
// for layer outlines. All operations that must compare positions exactly
// (closest-point projection, equality of grounding points) stay in integer
// space; intermediate products that could overflow int64 are computed in
// float64 and rounded back.
//
// # Polygons
//
// A [Polygon] is a closed ring of points; [Polygons] is a set of rings where
// containment follows the even-odd rule, so holes are simply nested rings
// regardless of their orientation:
//
//	outline := geom.Polygons{
//	    geom.Rect(0, 0, 10000, 10000),
//	    geom.Rect(4000, 4000, 6000, 6000), // hole
//	}
//	outline.Inside(geom.Pt(1000, 1000), false) // true
//	outline.Inside(geom.Pt(5000, 5000), false) // false
//
// # Regions
//
// Overhang areas are never computed with polygon boolean operations. Instead
// they are expressed as [Region] predicates ([Polygons], [Difference]) and
// sampled with [SpreadDots].
package geom
