package hooks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomtree/loom/internal/microtask"
	"github.com/loomtree/loom/pkg/hooks"
	"github.com/loomtree/loom/pkg/hostconfig"
	"github.com/loomtree/loom/pkg/node"
	"github.com/loomtree/loom/pkg/reconcile"
)

func newTestEngine(rootFn reconcile.ComponentFunc) (*reconcile.Reconciler, *node.Node) {
	container := node.New(node.Root)
	hc := hostconfig.New()
	eng := reconcile.New(hc, container, rootFn, microtask.New())
	return eng, container
}

func TestEffectOnceFiresOnlyOnceAndCleansUpOnUnmount(t *testing.T) {
	fires := 0
	cleanups := 0
	show := true

	inner := func(ctx *reconcile.RenderContext) reconcile.Element {
		hooks.EffectOnce(ctx, func() func() {
			fires++
			return func() { cleanups++ }
		})
		return reconcile.H("claude", nil)
	}

	fn := func(ctx *reconcile.RenderContext) reconcile.Element {
		if !show {
			return reconcile.H("wrapper", nil)
		}
		return reconcile.H("wrapper", nil, reconcile.Component("inner", inner, nil, nil))
	}

	eng, _ := newTestEngine(fn)
	eng.Commit()
	eng.Commit()
	assert.Equal(t, 1, fires)
	assert.Equal(t, 0, cleanups)

	show = false
	eng.Commit()
	assert.Equal(t, 1, cleanups)
}

func TestOnUnmountCapturesLatestClosure(t *testing.T) {
	seen := 0
	renderCount := 0
	show := true

	inner := func(ctx *reconcile.RenderContext) reconcile.Element {
		renderCount++
		captured := renderCount
		hooks.OnUnmount(ctx, func() { seen = captured })
		return reconcile.H("claude", nil)
	}
	fn := func(ctx *reconcile.RenderContext) reconcile.Element {
		if !show {
			return reconcile.H("wrapper", nil)
		}
		return reconcile.H("wrapper", nil, reconcile.Component("inner", inner, nil, nil))
	}

	eng, _ := newTestEngine(fn)
	eng.Commit()
	eng.Commit()
	eng.Commit()

	show = false
	eng.Commit()

	assert.Equal(t, 3, seen, "unmount must invoke the closure from the latest render, not the first")
}

func TestMountedPredicateFlipsFalseAfterUnmount(t *testing.T) {
	var predicate func() bool
	show := true

	inner := func(ctx *reconcile.RenderContext) reconcile.Element {
		predicate = hooks.MountedPredicate(ctx)
		return reconcile.H("claude", nil)
	}
	fn := func(ctx *reconcile.RenderContext) reconcile.Element {
		if !show {
			return reconcile.H("wrapper", nil)
		}
		return reconcile.H("wrapper", nil, reconcile.Component("inner", inner, nil, nil))
	}

	eng, _ := newTestEngine(fn)
	eng.Commit()
	assert.True(t, predicate())

	show = false
	eng.Commit()
	assert.False(t, predicate())
}

func TestPreviousReflectsPriorRenderValue(t *testing.T) {
	var observed []interface{}
	current := 0

	inner := func(ctx *reconcile.RenderContext) reconcile.Element {
		prev, ok := hooks.Previous(ctx, current)
		if !ok {
			observed = append(observed, nil)
		} else {
			observed = append(observed, prev)
		}
		return reconcile.H("claude", nil)
	}
	fn := func(ctx *reconcile.RenderContext) reconcile.Element {
		return reconcile.Component("inner", inner, nil, nil)
	}

	eng, _ := newTestEngine(fn)
	eng.Commit()
	current = 1
	eng.Commit()
	current = 2
	eng.Commit()

	assert.Equal(t, []interface{}{nil, 0, 1}, observed)
}

func TestEffectOnValueChangeFiresOnlyOnDistinctValues(t *testing.T) {
	calls := 0
	value := "a"

	inner := func(ctx *reconcile.RenderContext) reconcile.Element {
		hooks.EffectOnValueChange(ctx, value, func(prev interface{}, had bool) {
			calls++
		})
		return reconcile.H("claude", nil)
	}
	fn := func(ctx *reconcile.RenderContext) reconcile.Element {
		return reconcile.Component("inner", inner, nil, nil)
	}

	eng, _ := newTestEngine(fn)
	eng.Commit()
	assert.Equal(t, 1, calls, "first observation always fires")

	eng.Commit()
	assert.Equal(t, 1, calls, "same value does not re-fire")

	value = "b"
	eng.Commit()
	assert.Equal(t, 2, calls)

	value = "a"
	eng.Commit()
	assert.Equal(t, 3, calls)
}

func TestFirstMountOnlyTrueOnFirstRender(t *testing.T) {
	var seen []bool
	inner := func(ctx *reconcile.RenderContext) reconcile.Element {
		seen = append(seen, hooks.FirstMount(ctx))
		return reconcile.H("claude", nil)
	}
	fn := func(ctx *reconcile.RenderContext) reconcile.Element {
		return reconcile.Component("inner", inner, nil, nil)
	}

	eng, _ := newTestEngine(fn)
	eng.Commit()
	eng.Commit()

	assert.Equal(t, []bool{true, false}, seen)
}
