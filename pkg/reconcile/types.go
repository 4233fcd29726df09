// Package reconcile implements loom's minimal first-party reconciliation
// engine: an upstream reconciler kept in-house rather than pulled from the
// ecosystem. It understands function components, a per-component-site hook
// slot array, keyed child reconciliation and state-driven re-render, and
// speaks to the rest of the tree exclusively through the HostConfig
// contract.
//
// The engine reads pkg/node's types and fields but never calls its tree
// operations itself; every mutation goes through HostConfig, the same
// boundary a real upstream library like react-reconciler enforces between
// itself and a host renderer.
package reconcile

import "github.com/loomtree/loom/pkg/node"

// Priority is the fixed default priority returned by every priority query.
// loom carries no concurrent-mode priority scheme beyond this one value.
type Priority int

// DefaultPriority is the single priority level the host ever reports.
const DefaultPriority Priority = 0

// deleteSentinel marks a patch entry for removal rather than assignment.
type deleteSentinel struct{}

// Delete is the sentinel value PrepareUpdate uses in a Patch to mean
// "delete this prop".
var Delete = deleteSentinel{}

// IsDelete reports whether v is the Delete sentinel.
func IsDelete(v interface{}) bool {
	_, ok := v.(deleteSentinel)
	return ok
}

// Patch is the changed-keys map prepare_update returns: a changed key maps
// to its new value, or to Delete if the key was removed.
type Patch map[string]interface{}

// Capabilities describes the fixed capability set the host declares to the
// reconciler.
type Capabilities struct {
	SupportsMutation    bool
	SupportsPersistence bool
	SupportsHydration   bool
	IsPrimaryRenderer   bool
}

// HostConfig is the adapter surface the reconciler invokes.
// pkg/hostconfig provides the one implementation loom ships, built on
// pkg/node.
type HostConfig interface {
	Capabilities() Capabilities

	CreateInstance(typ string, props map[string]interface{}) *node.Node
	CreateTextInstance(text string) *node.Node

	AppendInitialChild(parent, child *node.Node)
	AppendChild(parent, child *node.Node)
	AppendChildToContainer(container, child *node.Node)
	InsertBefore(parent, child, anchor *node.Node)
	InsertInContainerBefore(container, child, anchor *node.Node)
	RemoveChild(parent, child *node.Node)
	RemoveChildFromContainer(container, child *node.Node)

	PrepareUpdate(instance *node.Node, oldProps, newProps map[string]interface{}) (Patch, bool)
	CommitUpdate(instance *node.Node, patch Patch)
	CommitTextUpdate(instance *node.Node, newText string)

	ClearContainer(container *node.Node)

	FinalizeInitialChildren(instance *node.Node) bool
	PrepareForCommit(container *node.Node) interface{}
	ResetAfterCommit(container *node.Node)
	GetPublicInstance(instance *node.Node) interface{}

	GetRootHostContext() interface{}
	GetChildHostContext(parentContext interface{}, typ string) interface{}

	NowPriority() Priority
	ScheduleMicrotask(fn func())
}

// Element is a virtual node produced by a component function: either a host
// element (Type set, Component nil), a text element (Type == node.Text,
// Props["value"] set) or a component element (Component set; Type is the
// component's name, which the keyed diff compares to tell component sites
// apart).
type Element struct {
	Type      string
	Props     map[string]interface{}
	Key       interface{}
	Children  []Element
	Component ComponentFunc
}

// ComponentFunc is a function component: given its render context (which
// carries props and the hook slot array), it returns the element it wants
// rendered in its place.
type ComponentFunc func(ctx *RenderContext) Element

// H is a small constructor for building Element trees without a JSX-like
// compiler. A "key" entry in props is lifted onto Element.Key (the same way
// pkg/node.SetProperty routes "key" out of the prop bag) so it participates
// in keyed diffing rather than being treated as an ordinary host prop.
func H(typ string, props map[string]interface{}, children ...Element) Element {
	if props == nil {
		props = map[string]interface{}{}
	}
	var key interface{}
	if k, ok := props["key"]; ok {
		key = k
	}
	return Element{Type: typ, Props: props, Key: key, Children: children}
}

// HText returns a text Element.
func HText(value string) Element {
	return Element{Type: node.Text, Props: map[string]interface{}{"value": value}}
}

// Component wraps a ComponentFunc under the given name (with optional
// props/key) into an Element. name is never shown to a host renderer; it
// exists solely so the engine's keyed diff can tell two component sites
// occupying the same slot apart (Go func values are not comparable, so
// Type stands in as the component's identity the way a constructor
// reference does in a real reconciler).
func Component(name string, fn ComponentFunc, props map[string]interface{}, key interface{}) Element {
	if props == nil {
		props = map[string]interface{}{}
	}
	return Element{Type: name, Component: fn, Props: props, Key: key}
}
