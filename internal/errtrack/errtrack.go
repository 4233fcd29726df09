// Package errtrack wires the recoverable-render-error path to Sentry: a
// render error is captured by the callback registered at container
// creation, logged, and otherwise swallowed rather than propagated.
package errtrack

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/loomtree/loom/internal/logging"
)

// Reporter sends recoverable render errors to Sentry. A zero-value
// Reporter (obtained via Disabled) logs instead of sending, so tests and
// DSN-less environments never fail to construct a Root.
type Reporter struct {
	hub     *sentry.Hub
	enabled bool
}

// New initializes the Sentry SDK with dsn and returns a Reporter backed by
// the current hub. An empty dsn disables sending (useful for tests) while
// still returning a usable Reporter.
func New(dsn string) (*Reporter, error) {
	if dsn == "" {
		return Disabled(), nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return nil, fmt.Errorf("errtrack: init sentry: %w", err)
	}
	return &Reporter{hub: sentry.CurrentHub(), enabled: true}, nil
}

// Disabled returns a Reporter that only logs, sending nothing to Sentry.
func Disabled() *Reporter {
	return &Reporter{}
}

// ReportRenderError is the error callback a Root registers at container
// creation. It captures cause with the offending component's identity as
// Sentry tags, and always logs regardless of whether Sentry is enabled.
func (r *Reporter) ReportRenderError(identity string, cause error) {
	logging.Component("reconcile").Error("recoverable render error", "identity", identity, "err", cause)
	if !r.enabled {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component_identity", identity)
		r.hub.CaptureException(cause)
	})
}

// Flush blocks until pending events are sent or timeout elapses.
func (r *Reporter) Flush(timeout time.Duration) {
	if !r.enabled {
		return
	}
	sentry.Flush(timeout)
}
