package loom

// Plugins observe and intercept graph mutations. Instead of probing for
// optionally-defined methods, each capability is its own interface; a plugin
// implements the ones it wants and Attach records the declared set once.

// ModelBinder receives the engine handle once at attach time.
type ModelBinder interface {
	RegisterWorkflowModel(engine *Engine)
}

// BeforeChangeNotifier is given an emitter the plugin calls right before it
// mutates the graph; the engine re-emits it as EventBeforeChange.
type BeforeChangeNotifier interface {
	RegisterOnBeforeChange(emit func(ref ElementRef))
}

// AfterChangeNotifier is given an emitter the plugin calls right after it
// mutates the graph; the engine re-emits it as EventAfterChange.
type AfterChangeNotifier interface {
	RegisterOnAfterChange(emit func(ref ElementRef))
}

// RenderObserver is invoked after every full re-render, in registration
// order.
type RenderObserver interface {
	AfterRender()
}

type pluginCaps uint8

const (
	capModel pluginCaps = 1 << iota
	capBeforeChange
	capAfterChange
	capRender
)

type pluginEntry struct {
	impl any
	caps pluginCaps
}

// Attach registers a plugin for the rest of the session. Registration cannot
// be revoked. The capability set is detected here, once; Destroy drops all
// plugins.
func (e *Engine) Attach(plugin any) {
	entry := pluginEntry{impl: plugin}

	if mb, ok := plugin.(ModelBinder); ok {
		entry.caps |= capModel
		mb.RegisterWorkflowModel(e)
	}
	if bn, ok := plugin.(BeforeChangeNotifier); ok {
		entry.caps |= capBeforeChange
		bn.RegisterOnBeforeChange(func(ref ElementRef) {
			_ = e.hub.Emit(EventBeforeChange, ref)
		})
	}
	if an, ok := plugin.(AfterChangeNotifier); ok {
		entry.caps |= capAfterChange
		an.RegisterOnAfterChange(func(ref ElementRef) {
			_ = e.hub.Emit(EventAfterChange, ref)
		})
	}
	if _, ok := plugin.(RenderObserver); ok {
		entry.caps |= capRender
	}

	e.plugins = append(e.plugins, entry)
}

// notifyAfterRender invokes AfterRender on every plugin that declared the
// render capability, in registration order.
func (e *Engine) notifyAfterRender() {
	for _, entry := range e.plugins {
		if entry.caps&capRender != 0 {
			entry.impl.(RenderObserver).AfterRender()
		}
	}
}
