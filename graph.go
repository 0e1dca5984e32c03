package loom

// Port is a connection endpoint: a step's input or output, or a
// workflow-level input/output. Anchor is the port's center in canvas space.
type Port struct {
	ID      string
	Kind    ElementKind // ElementInput or ElementOutput
	Step    string      // owning step id; empty for workflow-level ports
	Anchor  Vec2
	Visible bool
}

// Step is a workflow step as the engine sees it: an identifier, a canvas
// position, and its ports. The workflow model owns everything else about it.
type Step struct {
	ID       string
	Position Vec2
	Inputs   []Port
	Outputs  []Port
	Visible  bool
}

// Connection is a directed edge from a source port to a destination port.
type Connection struct {
	ID              string
	SourceStep      string
	SourcePort      string
	DestinationStep string
	DestinationPort string
	Visible         bool
}

// ModelEventKind enumerates the notifications a workflow model emits.
type ModelEventKind uint8

const (
	ModelStepChange         ModelEventKind = iota // "step.change"
	ModelInputCreate                              // "input.create"
	ModelOutputCreate                             // "output.create"
	ModelConnectionCreate                         // "connection.create"
	ModelConnectionsUpdated                       // "connections.updated"
)

// String returns the published notification name.
func (k ModelEventKind) String() string {
	switch k {
	case ModelStepChange:
		return "step.change"
	case ModelInputCreate:
		return "input.create"
	case ModelOutputCreate:
		return "output.create"
	case ModelConnectionCreate:
		return "connection.create"
	default:
		return "connections.updated"
	}
}

// ModelEvent is one workflow model notification. ID names the affected
// element where the kind has one; it is empty for connections.updated.
type ModelEvent struct {
	Kind ModelEventKind
	ID   string
}

// WorkflowModel is the external collaborator that owns the workflow being
// edited. The engine reads its collections to route, select, and highlight,
// forwards removals to it, and reacts to its notifications by rerouting and
// re-rendering. Collections are ordered; callers filter on Visible.
//
// Mutation failures (for example disconnecting a connection that no longer
// exists) are returned as-is and propagate through the engine uncaught.
type WorkflowModel interface {
	Steps() []Step
	Inputs() []Port
	Outputs() []Port
	Connections() []Connection

	RemoveStep(id string) error
	RemoveInput(id string) error
	RemoveOutput(id string) error
	Disconnect(ids ...string) error

	// Subscribe registers fn to receive model notifications for the rest of
	// the session. The engine subscribes once at construction.
	Subscribe(fn func(ModelEvent))
}

// Renderer is the external collaborator that owns the drawing surface. It
// materializes elements from templates, tracks state classes the engine tags
// elements with, and answers the geometry queries the viewport needs.
// Renderers must not mutate engine state; they only read current values.
type Renderer interface {
	// Mount materializes the visual element for ref. Remove unmounts it.
	Mount(ref ElementRef)
	Remove(ref ElementRef)

	// MoveNode places a step's visual at a canvas position. SetEdgePath
	// updates a connection's curve. RaiseEdge lifts a connection above
	// intervening node layers.
	MoveNode(id string, pos Vec2)
	SetEdgePath(id string, curve Curve)
	RaiseEdge(id string)

	// Tag and Untag toggle a state class (ClassSelected, ClassHighlighted,
	// ClassSnap, ...) on an element.
	Tag(ref ElementRef, class string)
	Untag(ref ElementRef, class string)

	// Bounds returns the canvas-space bounding rectangle of an element.
	// ViewportBounds returns the screen-space rectangle of the surface.
	Bounds(ref ElementRef) (Rect, bool)
	ViewportBounds() Rect

	// ApplyTransform pushes the current viewport transform to the surface;
	// SetLabelScale applies the overlay compensation factor.
	ApplyTransform(scale, tx, ty float64)
	SetLabelScale(factor float64)
}
