// Package hostconfig is loom's one shipped implementation of
// reconcile.HostConfig, built on pkg/node. It is the boundary between the
// reconciler and the tree it mutates: the reconciler never calls pkg/node's
// tree operations itself, only through this adapter, the same separation a real
// host-config package keeps from its upstream react-reconciler.
package hostconfig

import (
	"github.com/loomtree/loom/pkg/node"
	"github.com/loomtree/loom/pkg/reconcile"
)

// Config is a stateless adapter; everything it needs is either a parameter
// or reachable from the *node.Node arguments it's handed.
type Config struct{}

// New returns the host config. It carries no state of its own.
func New() *Config {
	return &Config{}
}

// Capabilities reports the fixed, mutation-mode, single-primary-renderer
// capability set: loom's host never supports persistence or hydration.
func (Config) Capabilities() reconcile.Capabilities {
	return reconcile.Capabilities{
		SupportsMutation:    true,
		SupportsPersistence: false,
		SupportsHydration:   false,
		IsPrimaryRenderer:   true,
	}
}

func (Config) CreateInstance(typ string, props map[string]interface{}) *node.Node {
	n := node.CreateElement(typ)
	for k, v := range props {
		if k == "children" || k == "key" {
			continue
		}
		node.SetProperty(n, k, v)
	}
	if key, ok := props["key"]; ok {
		node.SetProperty(n, "key", key)
	}
	return n
}

func (Config) CreateTextInstance(text string) *node.Node {
	return node.CreateText(text)
}

func (Config) AppendInitialChild(parent, child *node.Node) {
	node.Insert(parent, child, nil)
}

func (Config) AppendChild(parent, child *node.Node) {
	node.Insert(parent, child, nil)
}

func (Config) AppendChildToContainer(container, child *node.Node) {
	node.Insert(container, child, nil)
}

func (Config) InsertBefore(parent, child, anchor *node.Node) {
	node.Insert(parent, child, anchor)
}

func (Config) InsertInContainerBefore(container, child, anchor *node.Node) {
	node.Insert(container, child, anchor)
}

func (Config) RemoveChild(parent, child *node.Node) {
	node.Remove(parent, child)
}

func (Config) RemoveChildFromContainer(container, child *node.Node) {
	node.Remove(container, child)
}

// PrepareUpdate diffs oldProps against newProps, ignoring the structural
// "children" and "key" entries (children are reconciled separately; a key
// change is a remount signal the engine already handled by not reusing this
// instance). It reports ok=false when nothing changed, so the reconciler
// can skip CommitUpdate entirely when nothing changed.
func (Config) PrepareUpdate(instance *node.Node, oldProps, newProps map[string]interface{}) (reconcile.Patch, bool) {
	patch := reconcile.Patch{}

	for k, newV := range newProps {
		if k == "children" || k == "key" {
			continue
		}
		oldV, existed := oldProps[k]
		if !existed || !equalProp(oldV, newV) {
			patch[k] = newV
		}
	}
	for k := range oldProps {
		if k == "children" || k == "key" {
			continue
		}
		if _, stillPresent := newProps[k]; !stillPresent {
			patch[k] = reconcile.Delete
		}
	}

	if len(patch) == 0 {
		return nil, false
	}
	return patch, true
}

func (Config) CommitUpdate(instance *node.Node, patch reconcile.Patch) {
	for k, v := range patch {
		if reconcile.IsDelete(v) {
			node.DeleteProperty(instance, k)
			continue
		}
		node.SetProperty(instance, k, v)
	}
}

func (Config) CommitTextUpdate(instance *node.Node, newText string) {
	node.ReplaceText(instance, newText)
}

func (Config) ClearContainer(container *node.Node) {
	node.ClearChildren(container)
}

// FinalizeInitialChildren always returns false: loom's host never needs a
// post-initial-children commit pass.
func (Config) FinalizeInitialChildren(instance *node.Node) bool {
	return false
}

func (Config) PrepareForCommit(container *node.Node) interface{} {
	return nil
}

func (Config) ResetAfterCommit(container *node.Node) {}

// GetPublicInstance exposes the node itself: user code that wants a handle
// to a committed instance (for the mcpbridge example, or tests) gets the
// same *node.Node the serializer walks.
func (Config) GetPublicInstance(instance *node.Node) interface{} {
	return instance
}

func (Config) GetRootHostContext() interface{} {
	return struct{}{}
}

func (Config) GetChildHostContext(parentContext interface{}, typ string) interface{} {
	return parentContext
}

func (Config) NowPriority() reconcile.Priority {
	return reconcile.DefaultPriority
}

func (Config) ScheduleMicrotask(fn func()) {
	fn()
}

// equalProp compares two prop values with ==, falling back to "not equal"
// for types that aren't comparable (slices, maps, funcs) rather than
// panicking — an uncomparable prop is therefore always treated as changed.
func equalProp(a, b interface{}) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
