package loom

import (
	"math"
	"sort"
)

// Default distance thresholds, in screen pixels, for snap resolution and
// ghost endpoint visibility.
const (
	DefaultSnapThreshold  = 100.0
	DefaultGhostThreshold = 120.0
)

// Direction hints which way a connection travels so the curve leans with the
// flow instead of cutting back through its own endpoints.
type Direction uint8

const (
	DirectionNone  Direction = iota // symmetric midpoint-based curve
	DirectionLeft                   // control points pushed outward-left
	DirectionRight                  // control points pushed outward-right
)

// Curve is a cubic Bezier between two anchors.
type Curve struct {
	Start, C1, C2, End Vec2
}

// RoutePath produces a cubic curve between two anchor points.
//
// With DirectionRight, both control points are offset outward by half the
// horizontal distance in the direction of travel (the source control point
// moves right, the destination control point moves left), producing a
// forward-leaning S-curve. DirectionLeft mirrors this. DirectionNone yields
// a symmetric curve with both control points on the horizontal midline.
// The directional bias keeps side-by-side and stacked node pairs from
// producing self-intersecting curves.
func RoutePath(x1, y1, x2, y2 float64, dir Direction) Curve {
	switch dir {
	case DirectionRight:
		offset := math.Abs(x2-x1) / 2
		return Curve{
			Start: Vec2{X: x1, Y: y1},
			C1:    Vec2{X: x1 + offset, Y: y1},
			C2:    Vec2{X: x2 - offset, Y: y2},
			End:   Vec2{X: x2, Y: y2},
		}
	case DirectionLeft:
		offset := math.Abs(x2-x1) / 2
		return Curve{
			Start: Vec2{X: x1, Y: y1},
			C1:    Vec2{X: x1 - offset, Y: y1},
			C2:    Vec2{X: x2 + offset, Y: y2},
			End:   Vec2{X: x2, Y: y2},
		}
	default:
		mx := (x1 + x2) / 2
		return Curve{
			Start: Vec2{X: x1, Y: y1},
			C1:    Vec2{X: mx, Y: y1},
			C2:    Vec2{X: mx, Y: y2},
			End:   Vec2{X: x2, Y: y2},
		}
	}
}

// At evaluates the curve at parameter t in [0, 1].
func (c Curve) At(t float64) Vec2 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Vec2{
		X: a*c.Start.X + b*c.C1.X + d*c.C2.X + e*c.End.X,
		Y: a*c.Start.Y + b*c.C1.Y + d*c.C2.Y + e*c.End.Y,
	}
}

// Sample flattens the curve into n+1 polyline points from Start to End.
// Renderers that stroke line segments use this. n < 1 yields the endpoints.
func (c Curve) Sample(n int) []Vec2 {
	if n < 1 {
		return []Vec2{c.Start, c.End}
	}
	pts := make([]Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, c.At(float64(i)/float64(n)))
	}
	return pts
}

// PortDistance pairs a candidate port with its distance from the cursor.
type PortDistance struct {
	ID       string
	Distance float64
}

// RankCandidatePorts computes the Euclidean distance from cursor to each
// candidate's registered anchor and returns the candidates in ascending
// distance order. The sort is stable: equal distances keep the input order.
// Candidates with no registered anchor are dropped.
func RankCandidatePorts(candidates []string, cursor Vec2, anchorAt func(id string) (Vec2, bool)) []PortDistance {
	ranked := make([]PortDistance, 0, len(candidates))
	for _, id := range candidates {
		anchor, ok := anchorAt(id)
		if !ok {
			continue
		}
		dx := anchor.X - cursor.X
		dy := anchor.Y - cursor.Y
		ranked = append(ranked, PortDistance{ID: id, Distance: math.Sqrt(dx*dx + dy*dy)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}

// ResolveSnapTarget returns the nearest candidate as the snap target only if
// its distance is strictly below threshold. A nearest candidate at exactly
// the threshold does not snap.
func ResolveSnapTarget(ranked []PortDistance, threshold float64) (string, bool) {
	if len(ranked) == 0 || ranked[0].Distance >= threshold {
		return "", false
	}
	return ranked[0].ID, true
}

// DecideGhostVisibility reports whether a detached ghost endpoint should be
// shown: only once the cursor has moved farther than showThreshold from its
// origin node and no snap target is active. Otherwise the gesture is assumed
// to be connecting to an existing port and the ghost stays hidden.
func DecideGhostVisibility(nodeToCursor float64, hasSnapTarget bool, showThreshold float64) bool {
	return nodeToCursor > showThreshold && !hasSnapTarget
}
