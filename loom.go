// Package loom is the host renderer described across pkg/node (the tree
// model), pkg/reconcile (the upstream-reconciler analogue), pkg/hostconfig
// (the adapter between them) and pkg/serialize (the XML-ish snapshot
// format). Root is the public entry point: create one, mount a component,
// read its tree or its serialized snapshot, and dispose it when done.
package loom

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/loomtree/loom/internal/logging"
	"github.com/loomtree/loom/internal/metrics"
	"github.com/loomtree/loom/internal/microtask"
	"github.com/loomtree/loom/pkg/hostconfig"
	"github.com/loomtree/loom/pkg/node"
	"github.com/loomtree/loom/pkg/reconcile"
	"github.com/loomtree/loom/pkg/serialize"
	"github.com/loomtree/loom/pkg/signal"
)

// Root owns one container node and the reconciler rendering into it. It is
// the unit of lifetime: disposing a Root tears down its container and
// abandons any outstanding mount.
type Root struct {
	container *node.Node
	engine    *reconcile.Reconciler

	mu       sync.Mutex
	disposed bool
}

var (
	currentMu   sync.Mutex
	currentRoot *Root
)

// Option configures a Root at construction time.
type Option func(*rootOptions)

type rootOptions struct {
	onError func(identity string, err error)
	metrics *metrics.Metrics
}

// WithErrorCallback registers the callback recoverable render errors are
// reported to. Without one, errors are only logged.
func WithErrorCallback(fn func(identity string, err error)) Option {
	return func(o *rootOptions) { o.onError = fn }
}

// WithMetrics attaches a metrics.Metrics instance the Root's commits report
// to. Without one, no Prometheus instrumentation runs.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *rootOptions) { o.metrics = m }
}

// CreateRoot allocates the ROOT node, builds its reconciler over loom's one
// HostConfig implementation, and installs it as the process-wide current
// root that CurrentTreeXML reads back.
func CreateRoot(opts ...Option) *Root {
	o := &rootOptions{}
	for _, opt := range opts {
		opt(o)
	}

	container := node.New(node.Root)
	hc := hostconfig.New()

	r := &Root{container: container}
	r.engine = newEngine(hc, container, o)

	currentMu.Lock()
	currentRoot = r
	currentMu.Unlock()

	return r
}

// newEngine is split out from CreateRoot so the microtask queue and error
// callback wiring stay in one place.
func newEngine(hc reconcile.HostConfig, container *node.Node, o *rootOptions) *reconcile.Reconciler {
	mt := microtask.New()
	eng := reconcile.New(hc, container, nil, mt)
	eng.OnRecoverableError = func(err error) {
		logging.Component("reconcile").Warn("recoverable render error", "err", err)
		if o.metrics != nil {
			o.metrics.RenderErrors.Inc()
		}
		if o.onError != nil {
			o.onError("root", err)
		}
	}
	if o.metrics != nil {
		eng.OnCommit = func(d time.Duration, liveNodes int) {
			o.metrics.Commits.Inc()
			o.metrics.CommitDuration.Observe(d.Seconds())
			o.metrics.NodesLive.Set(float64(liveNodes))
		}
		eng.OnRemount = func(tag string) {
			o.metrics.Remounts.WithLabelValues(tag).Inc()
		}
	}
	return eng
}

// Mount renders component into the root, flushes the first commit, then
// awaits the completion signal the component's tree is expected to resolve.
// A nil signal is treated as already resolved, so callers that don't use
// the completion protocol can mount synchronously.
func (r *Root) Mount(ctx context.Context, component reconcile.ComponentFunc, sig *signal.Signal) error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return fmt.Errorf("loom: mount on disposed root")
	}
	r.engine.SetRoot(component)
	r.mu.Unlock()

	if err := r.engine.Commit(); err != nil {
		return err
	}
	r.engine.Microtasks().Pump()

	if sig == nil {
		return nil
	}

	select {
	case <-sig.Done():
		return sig.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tree returns the root's container node, the live tree the reconciler
// mutates in place.
func (r *Root) Tree() *node.Node {
	return r.container
}

// ToXML serializes the current tree by calling the serializer on ROOT.
func (r *Root) ToXML() string {
	return serialize.Serialize(r.container)
}

// Dispose tears down the container and drops any outstanding mount's
// completion signal unresolved. It is legal to call Dispose during a Mount
// in progress, which then blocks forever on the now-abandoned signal.
//
// Dispose does not clear the process-wide current-root reference: that
// reference is set on CreateRoot and overwritten by the next CreateRoot,
// never cleared on dispose, so CurrentTreeXML keeps returning the
// most-recently-created root's (now-emptied) tree until a new root
// replaces it.
func (r *Root) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	r.disposed = true
	node.ClearChildren(r.container)
}

// CurrentTreeXML returns the serialization of the most recently created
// root's tree, or ok=false if no root has ever been created.
func CurrentTreeXML() (string, bool) {
	currentMu.Lock()
	r := currentRoot
	currentMu.Unlock()
	if r == nil {
		return "", false
	}
	return r.ToXML(), true
}

// Serialize runs the serializer against any node directly, usable
// regardless of which Root (if any) owns it.
func Serialize(n *node.Node) string {
	return serialize.Serialize(n)
}
