package loom

// Vec2 is a 2D point or offset. Anchor points, cursor positions, and
// displacements throughout the API use canvas space unless noted otherwise.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ElementKind distinguishes the kinds of graph elements the engine
// manipulates. It replaces class-string inspection with a typed tag.
type ElementKind uint8

const (
	ElementNone   ElementKind = iota // no element (empty selection)
	ElementNode                      // a workflow step
	ElementEdge                      // a connection between two ports
	ElementInput                     // a workflow-level input port
	ElementOutput                    // a workflow-level output port
)

// String returns a short name for the kind.
func (k ElementKind) String() string {
	switch k {
	case ElementNode:
		return "node"
	case ElementEdge:
		return "edge"
	case ElementInput:
		return "input"
	case ElementOutput:
		return "output"
	default:
		return "none"
	}
}

// ElementRef identifies one element of the graph: a kind plus the model's
// identifier for it. The zero value refers to nothing.
type ElementRef struct {
	Kind ElementKind
	ID   string
}

// NoElement is the empty reference, used for "nothing selected".
var NoElement = ElementRef{}

// Event identifies a kind of engine event. The engine itself only emits the
// fixed set below; embedding applications may define additional events at or
// above EventUser.
type Event uint8

const (
	EventConnectionCreate Event = iota // a new connection was requested
	EventCreateStep                    // the application should create a step
	EventCreateInput                   // the application should create an input
	EventCreateOutput                  // the application should create an output
	EventBeforeChange                  // fires before any graph mutation
	EventAfterChange                   // fires after any graph mutation
	EventSelectionChange               // fires when the selection changes
	EventUser                          // first value available to applications
)

// String returns the published name of the event.
func (e Event) String() string {
	switch e {
	case EventConnectionCreate:
		return "connection.create"
	case EventCreateStep:
		return "app.create.step"
	case EventCreateInput:
		return "app.create.input"
	case EventCreateOutput:
		return "app.create.output"
	case EventBeforeChange:
		return "beforeChange"
	case EventAfterChange:
		return "afterChange"
	case EventSelectionChange:
		return "selectionChange"
	default:
		return "user"
	}
}

// State classes the engine asks the Renderer to tag elements with. Renderers
// map these to whatever attribute or style mechanism their surface provides.
const (
	ClassSelected    = "selected"
	ClassHighlighted = "highlighted"
	ClassSnap        = "snap-candidate"
	ClassRaised      = "raised"
	ClassGhost       = "ghost"
)
