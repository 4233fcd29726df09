// Command loomctl mounts a small demonstration agent-orchestration tree and
// prints its XML snapshot, wiring together the ambient stack (config,
// logging, metrics, error tracking) together for a runnable demo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomtree/loom"
	"github.com/loomtree/loom/internal/config"
	"github.com/loomtree/loom/internal/errtrack"
	"github.com/loomtree/loom/internal/logging"
	"github.com/loomtree/loom/internal/metrics"
	"github.com/loomtree/loom/pkg/mcpbridge"
	"github.com/loomtree/loom/pkg/reconcile"
)

func main() {
	configPath := flag.String("config", "loom.yaml", "path to loom.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loomctl:", err)
		os.Exit(1)
	}

	logging.SetLevel(levelFromString(cfg.LogLevel))
	log := logging.Component("loomctl")

	reporter, err := errtrack.New(cfg.SentryDSN)
	if err != nil {
		log.Error("failed to initialize error tracking", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if cfg.MetricsEnabled {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go http.ListenAndServe(cfg.MetricsAddr, nil)
		log.Info("metrics server started", "addr", cfg.MetricsAddr)
	}

	root := loom.CreateRoot(
		loom.WithMetrics(m),
		loom.WithErrorCallback(func(identity string, cause error) {
			reporter.ReportRenderError(identity, cause)
		}),
	)
	defer root.Dispose()

	if err := root.Mount(context.Background(), demoTree, nil); err != nil {
		log.Error("mount failed", "err", err)
		os.Exit(1)
	}

	fmt.Println(root.ToXML())
}

// demoTree renders a static orchestration plan: a ralph loop running one
// build phase, with the phase's claude step driven by mcpbridge.Agent so the
// demo exercises the same Execution-stamping path a real agent integration
// would.
func demoTree(ctx *reconcile.RenderContext) reconcile.Element {
	return reconcile.H("ralph", map[string]interface{}{"key": 0},
		reconcile.H("phase", map[string]interface{}{"name": "build"},
			reconcile.Component("claude-step", mcpbridge.Agent(runDemoAgent, "Fix bug"), nil, nil),
		),
	)
}

// runDemoAgent stands in for a real external agent call: the loomctl binary
// has no LLM backend wired up, so it just echoes the prompt back as its
// result.
func runDemoAgent(ctx context.Context, prompt string) (string, error) {
	return "handled: " + prompt, nil
}

func levelFromString(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
