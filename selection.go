package loom

// Selection tracks the single active selection and the derived set of
// highlighted elements. At most one node or edge is selected at a time.
type Selection struct {
	Active      ElementRef
	Highlighted []ElementRef
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool { return s.Active == NoElement }

// SelectNode clears any prior selection, marks the step selected, and
// highlights every visible edge touching it along with each edge's
// opposite-end node. Highlighted edges are raised above intervening node
// layers. Emits EventSelectionChange with the node's reference.
func (e *Engine) SelectNode(stepID string) {
	e.dropSelectionMarkers()

	sel := e.state.Selection
	sel.Active = ElementRef{Kind: ElementNode, ID: stepID}
	e.renderer.Tag(sel.Active, ClassSelected)

	for _, c := range e.model.Connections() {
		if !c.Visible {
			continue
		}
		var opposite string
		switch stepID {
		case c.SourceStep:
			opposite = c.DestinationStep
		case c.DestinationStep:
			opposite = c.SourceStep
		default:
			continue
		}
		edge := ElementRef{Kind: ElementEdge, ID: c.ID}
		e.highlight(edge)
		e.renderer.RaiseEdge(c.ID)
		e.renderer.Tag(edge, ClassRaised)
		if opposite != "" {
			e.highlight(ElementRef{Kind: ElementNode, ID: opposite})
		}
	}

	_ = e.hub.Emit(EventSelectionChange, sel.Active)
}

// SelectEdge clears any prior selection, marks the connection selected, and
// highlights its two terminal ports. Emits EventSelectionChange with the
// edge's reference.
func (e *Engine) SelectEdge(connectionID string) {
	e.dropSelectionMarkers()

	sel := e.state.Selection
	sel.Active = ElementRef{Kind: ElementEdge, ID: connectionID}
	e.renderer.Tag(sel.Active, ClassSelected)

	for _, c := range e.model.Connections() {
		if c.ID != connectionID {
			continue
		}
		e.highlight(ElementRef{Kind: e.portKindOr(c.SourcePort, ElementOutput), ID: c.SourcePort})
		e.highlight(ElementRef{Kind: e.portKindOr(c.DestinationPort, ElementInput), ID: c.DestinationPort})
		break
	}

	_ = e.hub.Emit(EventSelectionChange, sel.Active)
}

// ClearSelection removes all selected and highlighted markers and emits
// EventSelectionChange with NoElement.
func (e *Engine) ClearSelection() {
	e.dropSelectionMarkers()
	_ = e.hub.Emit(EventSelectionChange, NoElement)
}

// DeselectEverything is the public alias for ClearSelection; clicking empty
// canvas routes here.
func (e *Engine) DeselectEverything() {
	e.ClearSelection()
}

// DeleteSelection removes the selected element from the workflow model,
// bracketed by EventBeforeChange and EventAfterChange with
// EventSelectionChange(NoElement) in between. With nothing selected it is a
// strict no-op: no events fire. Model errors propagate uncaught; the caller
// should re-derive state from the model on the next render.
func (e *Engine) DeleteSelection() error {
	sel := e.state.Selection
	if sel.Empty() {
		return nil
	}
	target := sel.Active

	if err := e.hub.Emit(EventBeforeChange, target); err != nil {
		return err
	}

	var err error
	switch target.Kind {
	case ElementNode:
		err = e.model.RemoveStep(target.ID)
	case ElementEdge:
		err = e.model.Disconnect(target.ID)
	case ElementInput:
		err = e.model.RemoveInput(target.ID)
	case ElementOutput:
		err = e.model.RemoveOutput(target.ID)
	}
	if err != nil {
		return err
	}

	e.renderer.Remove(target)
	e.refreshIndex()
	e.render()

	e.dropSelectionMarkers()
	if err := e.hub.Emit(EventSelectionChange, NoElement); err != nil {
		return err
	}
	return e.hub.Emit(EventAfterChange, target)
}

// highlight tags ref and records it for later removal.
func (e *Engine) highlight(ref ElementRef) {
	e.renderer.Tag(ref, ClassHighlighted)
	e.state.Selection.Highlighted = append(e.state.Selection.Highlighted, ref)
}

// dropSelectionMarkers untags everything the current selection marked,
// without emitting events.
func (e *Engine) dropSelectionMarkers() {
	sel := e.state.Selection
	if sel.Active != NoElement {
		e.renderer.Untag(sel.Active, ClassSelected)
	}
	for _, ref := range sel.Highlighted {
		e.renderer.Untag(ref, ClassHighlighted)
		if ref.Kind == ElementEdge {
			e.renderer.Untag(ref, ClassRaised)
		}
	}
	sel.Active = NoElement
	sel.Highlighted = sel.Highlighted[:0]
}

// portKindOr returns the indexed kind for a port, or fallback when the port
// is not in the index (already removed from the model).
func (e *Engine) portKindOr(id string, fallback ElementKind) ElementKind {
	if k, ok := e.portKind[id]; ok {
		return k
	}
	return fallback
}
