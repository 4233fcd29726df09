// Package hooks implements the fixed lifecycle hook set built on top of
// reconcile.RenderContext: effect_once, on_mount, on_unmount, first_mount,
// mounted_predicate, previous and effect_on_value_change. Each hook is a
// thin function over RenderContext.slot/AddDisposer/AddPostRender/
// QueueEffect rather than a method on the context itself, separating hook
// storage from the lifecycle helpers built on top of it.
package hooks

import "github.com/loomtree/loom/pkg/reconcile"

// FirstMount reports whether the current render is the first one for this
// component site.
func FirstMount(ctx *reconcile.RenderContext) bool {
	return ctx.FirstRender()
}

// onceSlot marks whether EffectOnce has already fired for this site.
type onceSlot struct {
	fired bool
}

// EffectOnce runs fn exactly once, after the first commit this component
// site participates in, and registers cleanup (if fn returns one) to run
// when the site is unmounted.
func EffectOnce(ctx *reconcile.RenderContext, fn func() func()) {
	raw, firstReach := slotValue(ctx, func() interface{} { return &onceSlot{} })
	s := raw.(*onceSlot)
	if !firstReach || s.fired {
		return
	}
	s.fired = true
	ctx.QueueEffect(func() {
		if cleanup := fn(); cleanup != nil {
			ctx.AddDisposer(cleanup)
		}
	})
}

// OnMount runs fn after every commit in which this component site first
// appears — identical timing to EffectOnce without the cleanup return,
// the simpler of the two mount hooks.
func OnMount(ctx *reconcile.RenderContext, fn func()) {
	raw, firstReach := slotValue(ctx, func() interface{} { return &onceSlot{} })
	s := raw.(*onceSlot)
	if !firstReach || s.fired {
		return
	}
	s.fired = true
	ctx.QueueEffect(fn)
}

// unmountCell holds the latest fn OnUnmount was called with, so the
// disposer registered on first reach always invokes the most recent
// closure rather than the one captured on mount.
type unmountCell struct {
	fn func()
}

// OnUnmount registers fn to run when this component site is unmounted. Each
// render updates which closure will run; the disposer itself is only
// registered once, on first reach.
func OnUnmount(ctx *reconcile.RenderContext, fn func()) {
	raw, firstReach := slotValue(ctx, func() interface{} {
		cell := &unmountCell{}
		return cell
	})
	cell := raw.(*unmountCell)
	cell.fn = fn
	if firstReach {
		ctx.AddDisposer(func() {
			if cell.fn != nil {
				cell.fn()
			}
		})
	}
}

// predicateCell is the mutable boolean cell MountedPredicate's closure
// reads from.
type predicateCell struct {
	mounted bool
}

// MountedPredicate returns a closure reporting whether this component site
// is currently mounted. The closure reads a mutable cell rather than
// capturing a value, so it reflects unmount even when called from code that
// outlives the render that created it.
func MountedPredicate(ctx *reconcile.RenderContext) func() bool {
	raw, firstReach := slotValue(ctx, func() interface{} {
		cell := &predicateCell{mounted: true}
		return cell
	})
	cell := raw.(*predicateCell)
	if firstReach {
		ctx.AddDisposer(func() {
			cell.mounted = false
		})
	}
	return func() bool {
		return cell.mounted
	}
}

// previousCell stores the value Previous saw on the prior render.
type previousCell struct {
	value interface{}
	has   bool
}

// Previous returns the value passed to Previous on this component site's
// prior render (or ok==false on the first render), and schedules the cell
// to be updated to value only after this render completes — so code
// running during the current render still observes the old value.
func Previous(ctx *reconcile.RenderContext, value interface{}) (interface{}, bool) {
	raw, _ := slotValue(ctx, func() interface{} { return &previousCell{} })
	cell := raw.(*previousCell)
	prev, ok := cell.value, cell.has
	ctx.AddPostRender(func() {
		cell.value = value
		cell.has = true
	})
	return prev, ok
}

// changeState is the tri-state EffectOnValueChange keeps per site: it has
// never seen a value, has seen one equal to the current one, or has seen
// one different from the current one.
type changeState int

const (
	neverSeen changeState = iota
	seenSame
	seenDifferent
)

type valueChangeCell struct {
	last interface{}
	seen bool
}

// EffectOnValueChange runs fn after commit whenever value differs from the
// value seen on a previous render (by reflect-free equality; callers pass
// comparable values). The "last seen" cell is updated before fn is queued,
// not after it runs, so a re-entrant render triggered from within fn's
// effect cannot observe a stale value and double-fire on re-entrant
// renders.
func EffectOnValueChange(ctx *reconcile.RenderContext, value interface{}, fn func(previous interface{}, hasPrevious bool)) {
	raw, _ := slotValue(ctx, func() interface{} { return &valueChangeCell{} })
	cell := raw.(*valueChangeCell)

	state := neverSeen
	if cell.seen {
		if nanSafeEqual(cell.last, value) {
			state = seenSame
		} else {
			state = seenDifferent
		}
	}

	if state == seenSame {
		return
	}

	prev, hadPrev := cell.last, cell.seen
	cell.last = value
	cell.seen = true

	ctx.QueueEffect(func() {
		fn(prev, hadPrev)
	})
}

// nanSafeEqual compares two values for equality, treating float64 NaN as
// equal to itself so a value that is "NaN on every render" does not look
// like it changes forever.
func nanSafeEqual(a, b interface{}) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok && af != af && bf != bf {
		return true
	}
	return a == b
}

// slotValue is the unexported bridge into RenderContext's hook slot array;
// hooks in this package are the only callers outside package reconcile.
func slotValue(ctx *reconcile.RenderContext, init func() interface{}) (interface{}, bool) {
	return ctx.Slot(init)
}
