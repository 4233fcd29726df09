package reconcile

import (
	"fmt"
	"time"

	"github.com/loomtree/loom/internal/microtask"
	"github.com/loomtree/loom/pkg/node"
)

// trackedChild is the diff algorithm's memory of one position in a parent's
// child list across commits: which Element last occupied it (for
// same-type/same-key comparison) and which committed *node.Node resulted.
type trackedChild struct {
	identity string
	el       Element
	hostEl   Element
	n        *node.Node
}

// Reconciler is loom's first-party engine: it resolves a tree of Elements
// (function components plus host/text elements) down to HostConfig calls,
// keeping per-component-site RenderContexts alive across commits by a
// stable identity path, and firing effects after each commit.
type Reconciler struct {
	hc        HostConfig
	container *node.Node
	rootFn    ComponentFunc

	contexts       map[string]*RenderContext
	parentChildren map[*node.Node][]*trackedChild
	touched        map[string]bool
	pendingEffects []func()

	microtasks *microtask.Queue

	// OnRecoverableError receives panics from user component functions,
	// captured at the single recovery point in Commit, logged, and
	// otherwise swallowed rather than propagated to the caller.
	OnRecoverableError func(error)

	// OnCommit, if set, is called once at the end of every Commit (whether
	// it succeeded or recovered from a panic) with the wall-clock duration
	// of the pass and the number of nodes currently reachable from the
	// container.
	OnCommit func(duration time.Duration, liveNodes int)

	// OnRemount, if set, is called whenever a keyed element fails to reuse
	// an instance at a position an old child occupied (a changed key, or a
	// type change under the same key) — a detach-then-create pair rather
	// than a reuse.
	OnRemount func(tag string)
}

// New returns a reconciler bound to container and ready to render rootFn
// into it. microtasks is the queue state-driven re-renders are scheduled
// on; pass a shared queue so the root's Mount can pump it.
func New(hc HostConfig, container *node.Node, rootFn ComponentFunc, microtasks *microtask.Queue) *Reconciler {
	return &Reconciler{
		hc:             hc,
		container:      container,
		rootFn:         rootFn,
		contexts:       map[string]*RenderContext{},
		parentChildren: map[*node.Node][]*trackedChild{},
		microtasks:     microtasks,
	}
}

// Microtasks exposes the reconciler's scheduling queue so a root's Mount
// can drain it after the first commit, before awaiting the completion
// signal.
func (r *Reconciler) Microtasks() *microtask.Queue {
	return r.microtasks
}

// SetRoot installs (or replaces) the component function rendered at the
// tree's root. The owning Root calls this from Mount before the first
// Commit; it exists as a separate step so New can construct a Reconciler
// before the caller has decided what to mount.
func (r *Reconciler) SetRoot(fn ComponentFunc) {
	r.rootFn = fn
}

// scheduleRerender is called by RenderContext.Rerender (and therefore by
// UseState's setter) to request another whole-tree commit. It is scheduled
// through the microtask queue rather than run inline, matching "effects
// fire after commits" and keeping state updates out of the caller's stack.
func (r *Reconciler) scheduleRerender() {
	r.microtasks.Schedule(func() {
		r.Commit()
	})
}

// Commit performs one full synchronous render-and-patch pass: it
// re-evaluates the whole component tree from the root, diffs the result
// against the previously committed node tree via HostConfig, fires
// unmount disposers for anything no longer reached, then runs the effects
// (mount/value-change) queued during this pass.
//
// A commit is atomic with respect to external observers: nothing outside
// this call can observe a partially-applied set of host mutations, because
// Commit never yields control until it returns.
func (r *Reconciler) Commit() (err error) {
	start := time.Now()
	r.touched = map[string]bool{}
	r.pendingEffects = nil

	defer func() {
		if rec := recover(); rec != nil {
			var cause error
			if e, ok := rec.(error); ok {
				cause = e
			} else {
				cause = fmt.Errorf("panic during render: %v", rec)
			}
			if r.OnRecoverableError != nil {
				r.OnRecoverableError(cause)
			}
		}
		if r.OnCommit != nil {
			r.OnCommit(time.Since(start), countNodes(r.container))
		}
	}()

	root := Element{Component: r.rootFn, Type: "root", Props: map[string]interface{}{}}
	r.reconcileChildren(r.container, "root", []Element{root}, false)

	for id, ctx := range r.contexts {
		if r.touched[id] {
			continue
		}
		for i := len(ctx.disposers) - 1; i >= 0; i-- {
			ctx.disposers[i]()
		}
		delete(r.contexts, id)
	}

	effects := r.pendingEffects
	r.pendingEffects = nil
	for _, fn := range effects {
		fn()
	}
	return nil
}

// queueEffect registers fn to run once the whole commit's host mutations
// have been applied — the mechanism EffectOnce/OnMount/
// EffectOnValueChange in pkg/hooks build on.
func (r *Reconciler) queueEffect(fn func()) {
	r.pendingEffects = append(r.pendingEffects, fn)
}

// getOrCreateContext returns the persistent RenderContext for identity,
// creating one on first reach, and marks identity touched for this commit's
// unmount sweep.
func (r *Reconciler) getOrCreateContext(identity string, props map[string]interface{}, key interface{}) *RenderContext {
	r.touched[identity] = true
	if ctx, ok := r.contexts[identity]; ok {
		ctx.props = props
		ctx.key = key
		ctx.cursor = 0
		return ctx
	}
	ctx := &RenderContext{engine: r, identity: identity, props: props, key: key}
	r.contexts[identity] = ctx
	return ctx
}

// resolve repeatedly invokes nested component functions starting from el
// until it reaches a host or text Element, returning that element and the
// chain of RenderContexts created along the way (each gets its own
// identity, by appending a component-depth suffix to basePath, so nested
// components at the same tree position do not share hook storage). The
// caller sets ctx.node on every entry in chain once the resulting host/text
// node is known, so a component's hooks can reach the node it renders
// (pkg/mcpbridge.Agent stamps Execution this way).
func (r *Reconciler) resolve(el Element, basePath string) (Element, []*RenderContext) {
	depth := 0
	cur := el
	var chain []*RenderContext
	for cur.Component != nil {
		id := fmt.Sprintf("%s#%d", basePath, depth)
		ctx := r.getOrCreateContext(id, cur.Props, cur.Key)
		chain = append(chain, ctx)
		next := cur.Component(ctx)
		for _, fn := range ctx.postRenderFns {
			fn()
		}
		ctx.postRenderFns = nil
		ctx.rendered = true
		cur = next
		depth++
	}
	return cur, chain
}

// sameType reports whether two elements occupying the same diff slot
// should be treated as the same node across renders (reused) or as a
// remount (detach-then-create). Host elements match on tag; component
// elements match on the component's declared name (Element.Type).
func sameType(a, b Element) bool {
	if (a.Component == nil) != (b.Component == nil) {
		return false
	}
	return a.Type == b.Type
}

func childSuffix(el Element, i int) string {
	if el.Key != nil {
		return fmt.Sprintf("/k:%v", el.Key)
	}
	return fmt.Sprintf("/i:%d", i)
}

// mount resolves el into a host/text node and, for host elements, mounts
// its own children using the initial (offscreen) attachment path.
func (r *Reconciler) mount(basePath string, el Element) *trackedChild {
	hostEl, chain := r.resolve(el, basePath)
	var n *node.Node
	if hostEl.Type == node.Text {
		text, _ := hostEl.Props["value"].(string)
		n = r.hc.CreateTextInstance(text)
	} else {
		n = r.hc.CreateInstance(hostEl.Type, hostEl.Props)
		if len(hostEl.Children) > 0 {
			r.reconcileChildren(n, basePath, hostEl.Children, true)
		}
		r.hc.FinalizeInitialChildren(n)
	}
	for _, ctx := range chain {
		ctx.node = n
	}
	return &trackedChild{identity: basePath, el: el, hostEl: hostEl, n: n}
}

// update re-resolves el against the node tracked at the same identity,
// reusing its instance and committing a props/children/text patch.
func (r *Reconciler) update(tc *trackedChild, basePath string, el Element) *trackedChild {
	hostEl, chain := r.resolve(el, basePath)
	n := tc.n
	if hostEl.Type == node.Text {
		newText, _ := hostEl.Props["value"].(string)
		oldText, _ := tc.hostEl.Props["value"].(string)
		if newText != oldText {
			r.hc.CommitTextUpdate(n, newText)
		}
	} else {
		if patch, ok := r.hc.PrepareUpdate(n, tc.hostEl.Props, hostEl.Props); ok {
			r.hc.CommitUpdate(n, patch)
		}
		r.reconcileChildren(n, basePath, hostEl.Children, false)
	}
	for _, ctx := range chain {
		ctx.node = n
	}
	return &trackedChild{identity: basePath, el: el, hostEl: hostEl, n: n}
}

// reconcileChildren reconciles parent's logical child list against
// elements. When initial is true, parent is assumed brand new with no
// prior children: every element is mounted and attached via the
// offscreen/"initial child" path, with no diffing. Otherwise a full
// keyed diff runs against parent's previously tracked children, reusing,
// mounting, removing and reordering as needed.
func (r *Reconciler) reconcileChildren(parent *node.Node, basePath string, elements []Element, initial bool) {
	isContainer := parent == r.container

	if initial {
		list := make([]*trackedChild, len(elements))
		for i, el := range elements {
			identity := basePath + childSuffix(el, i)
			tc := r.mount(identity, el)
			r.hc.AppendInitialChild(parent, tc.n)
			list[i] = tc
		}
		r.parentChildren[parent] = list
		return
	}

	old := r.parentChildren[parent]
	oldByKey := map[string]*trackedChild{}
	for _, tc := range old {
		if tc.el.Key != nil {
			oldByKey[fmt.Sprint(tc.el.Key)] = tc
		}
	}
	used := make(map[*trackedChild]bool, len(old))

	newList := make([]*trackedChild, len(elements))
	minUnkeyed := 0
	for i, el := range elements {
		var matched *trackedChild
		if el.Key != nil {
			if tc, ok := oldByKey[fmt.Sprint(el.Key)]; ok && !used[tc] && sameType(tc.el, el) {
				matched = tc
			}
		} else {
			for j := minUnkeyed; j < len(old); j++ {
				tc := old[j]
				if tc.el.Key == nil && !used[tc] && sameType(tc.el, el) {
					matched = tc
					if j == minUnkeyed {
						minUnkeyed++
					}
					break
				}
			}
		}

		identity := basePath + childSuffix(el, i)
		if matched != nil {
			used[matched] = true
			newList[i] = r.update(matched, identity, el)
		} else {
			// A keyed element that failed to reuse an instance, at a
			// position some old child previously occupied, is a remount:
			// the old occupant is detached below and a fresh one created
			// here rather than reused (el.Key != oldKey is the common
			// case; a same-key type change falls in here too).
			if el.Key != nil && i < len(old) && r.OnRemount != nil {
				r.OnRemount(el.Type)
			}
			newList[i] = r.mount(identity, el)
		}
	}

	for _, tc := range old {
		if used[tc] {
			continue
		}
		if isContainer {
			r.hc.RemoveChildFromContainer(parent, tc.n)
		} else {
			r.hc.RemoveChild(parent, tc.n)
		}
	}

	r.reorder(parent, newList, isContainer)
	r.parentChildren[parent] = newList
}

// reorder makes parent's actual host children match newList's order,
// inserting newly mounted nodes and moving reused ones as needed.
func (r *Reconciler) reorder(parent *node.Node, newList []*trackedChild, isContainer bool) {
	for i, tc := range newList {
		cur := indexOfChild(parent, tc.n)
		if cur == i {
			continue
		}
		if cur >= 0 {
			if isContainer {
				r.hc.RemoveChildFromContainer(parent, tc.n)
			} else {
				r.hc.RemoveChild(parent, tc.n)
			}
		}
		var anchor *node.Node
		if i < len(parent.Children) {
			anchor = parent.Children[i]
		}
		if anchor != nil {
			if isContainer {
				r.hc.InsertInContainerBefore(parent, tc.n, anchor)
			} else {
				r.hc.InsertBefore(parent, tc.n, anchor)
			}
		} else {
			if isContainer {
				r.hc.AppendChildToContainer(parent, tc.n)
			} else {
				r.hc.AppendChild(parent, tc.n)
			}
		}
	}
}

func indexOfChild(parent, child *node.Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// countNodes returns the number of nodes reachable from n, including n
// itself.
func countNodes(n *node.Node) int {
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	return count
}
