package reconcile

import "github.com/loomtree/loom/pkg/node"

// RenderContext is the per-component-site render handle passed to a
// ComponentFunc. It is the Go analogue of a React fiber: it survives across
// re-renders of the same component site (keyed identity, see engine.go) and
// carries the hook slot array lifecycle hooks (pkg/hooks) and UseState read
// and write through Slot (slot inside this package).
//
// A RenderContext is only ever touched from the single cooperative thread
// the reconciler runs on; it needs no locking.
type RenderContext struct {
	engine *Reconciler

	// identity is the stable fiber path this context was created for. It
	// changes only when the component remounts (see reconcileChildren).
	identity string

	props map[string]interface{}
	key   interface{}

	// node is the nearest committed host/text instance produced while
	// rendering this component (nil until the first host descendant
	// commits).
	node *node.Node

	hooks    []interface{}
	cursor   int
	rendered bool // true once this site has completed at least one render
	mounted  bool

	// disposers run, most-recently-added first, when this component site is
	// swept as unmounted (on_unmount / effect_once cleanup).
	disposers []func()

	// postRenderFns run immediately after this render call returns, before
	// control returns to the parent's resolve loop — used by hooks like
	// Previous that must update bookkeeping only after the current render
	// observed the old value.
	postRenderFns []func()
}

// Props returns the props this render was invoked with.
func (ctx *RenderContext) Props() map[string]interface{} {
	return ctx.props
}

// Key returns this component's key, or nil if unkeyed.
func (ctx *RenderContext) Key() interface{} {
	return ctx.key
}

// Node returns the nearest committed host/text instance produced while
// rendering this component site, or nil before the first commit completes.
func (ctx *RenderContext) Node() *node.Node {
	return ctx.node
}

// slot returns the hook slot at the context's current cursor, creating it
// with init() if this is the first time this call site is reached, then
// advances the cursor. Hook wrapper functions in pkg/hooks call this once
// per hook invocation; callers must invoke hooks in the same order on every
// render of a given component site, the same rule React imposes.
func (ctx *RenderContext) slot(init func() interface{}) (interface{}, bool) {
	i := ctx.cursor
	ctx.cursor++
	firstReach := i >= len(ctx.hooks)
	if firstReach {
		ctx.hooks = append(ctx.hooks, init())
	}
	return ctx.hooks[i], firstReach
}

// Slot exposes slot to hook implementations outside this package (pkg/hooks
// is the only intended caller). See slot for semantics.
func (ctx *RenderContext) Slot(init func() interface{}) (interface{}, bool) {
	return ctx.slot(init)
}

// setSlot overwrites the hook slot at index i.
func (ctx *RenderContext) setSlot(i int, v interface{}) {
	ctx.hooks[i] = v
}

// AddDisposer registers fn to run when this component site is unmounted.
// Disposers run in reverse registration order, last-registered first, the
// same order defer would run them in.
func (ctx *RenderContext) AddDisposer(fn func()) {
	ctx.disposers = append(ctx.disposers, fn)
}

// AddPostRender registers fn to run once, immediately after the current
// render call returns (pkg/hooks.Previous uses this to update its "last
// seen" cell only after this render observed the prior value).
func (ctx *RenderContext) AddPostRender(fn func()) {
	ctx.postRenderFns = append(ctx.postRenderFns, fn)
}

// QueueEffect registers fn to run once the whole commit's host mutations
// have been applied, after every component has finished rendering. The
// effect_once, on_mount and effect_on_value_change hooks all
// defer their callback through this.
func (ctx *RenderContext) QueueEffect(fn func()) {
	ctx.engine.queueEffect(fn)
}

// FirstRender reports whether this is the first render of this component
// site.
func (ctx *RenderContext) FirstRender() bool {
	return !ctx.rendered
}

// Rerender schedules a whole-tree re-render via the owning engine's
// microtask scheduler. It is how UseState's setter and any other
// state-driven hook trigger a re-render.
func (ctx *RenderContext) Rerender() {
	ctx.engine.scheduleRerender()
}

// stateSlot is the storage UseState keeps in a hook slot.
type stateSlot struct {
	value interface{}
}

// UseState is the reconciler's built-in state primitive: the minimal state
// hook loom's first-party engine supplies for function components and
// hooks to build on, enqueuing a re-render rather than mutating and
// returning inline.
func UseState(ctx *RenderContext, initial interface{}) (interface{}, func(interface{})) {
	raw, _ := ctx.slot(func() interface{} { return &stateSlot{value: initial} })
	s := raw.(*stateSlot)
	set := func(v interface{}) {
		s.value = v
		ctx.Rerender()
	}
	return s.value, set
}
