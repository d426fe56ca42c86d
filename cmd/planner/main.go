// Command planner computes the communication timeline for one mission: it
// loads a mission definition, a planned route, and the satellite coverage
// catalog, runs the timeline engine once, and renders the result. With
// -listen it also exposes the derived Prometheus gauges until interrupted.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/signalsfoundry/comm-planner/catalog"
	"github.com/signalsfoundry/comm-planner/core"
	"github.com/signalsfoundry/comm-planner/internal/logging"
	"github.com/signalsfoundry/comm-planner/internal/observability"
	"github.com/signalsfoundry/comm-planner/model"
	"github.com/signalsfoundry/comm-planner/timectrl"
)

func main() {
	missionPath := flag.String("mission", "", "path to the mission JSON file (required)")
	routePath := flag.String("route", "", "path to the route JSON file (required)")
	catalogPath := flag.String("catalog", "", "path to the coverage catalog file (required)")
	tlePath := flag.String("ku-tles", "", "optional TLE file enabling the Ku constellation visibility check")
	nowFlag := flag.String("now", "", "observation time, RFC3339 (default: wall clock)")
	format := flag.String("format", "text", "output format: text or json")
	listen := flag.String("listen", "", "optional address to serve /metrics on after computing")
	cadence := flag.Duration("cadence", 60*time.Second, "coverage sampling cadence")
	transitionWindow := flag.Duration("transition-window", 30*time.Minute, "full width of the X transition degrade window")
	aarDegradesKu := flag.Bool("aar-degrades-ku", false, "degrade Ku during air-refueling windows")
	xkuCritical := flag.Bool("xku-critical", false, "escalate simultaneous X+Ku loss to critical instead of warning-only")
	flag.Parse()

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	log := logging.NewFromEnv()
	ctx := context.Background()

	if *missionPath == "" || *routePath == "" || *catalogPath == "" {
		fmt.Fprintln(os.Stderr, "planner: -mission, -route, and -catalog are required")
		flag.Usage()
		os.Exit(2)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fatal(ctx, log, "init tracing", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	mission, err := loadMission(*missionPath)
	if err != nil {
		fatal(ctx, log, "load mission", err)
	}
	flightRoute, err := loadRoute(*routePath)
	if err != nil {
		fatal(ctx, log, "load route", err)
	}
	store, err := loadCatalog(ctx, log, *catalogPath)
	if err != nil {
		fatal(ctx, log, "load catalog", err)
	}
	tles, err := loadTLEs(*tlePath)
	if err != nil {
		fatal(ctx, log, "load TLEs", err)
	}

	planner, err := core.NewPlanner(core.PlannerConfig{
		Log:     log,
		Catalog: store,
		Sampler: core.SamplerOptions{Cadence: *cadence},
		Evaluator: core.EvaluatorOptions{
			TransitionWindow: *transitionWindow,
			AARDegradesKu:    *aarDegradesKu,
		},
		Policy: core.SeverityPolicy{XKuConflictCritical: *xkuCritical},
		KuTLEs: tles,
	})
	if err != nil {
		fatal(ctx, log, "build planner", err)
	}

	var clock timectrl.Clock = timectrl.System{}
	if *nowFlag != "" {
		at, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			fatal(ctx, log, "parse -now", err)
		}
		clock = timectrl.NewManual(at.UTC())
	}

	started := time.Now()
	timeline, err := planner.ComputeTimeline(ctx, mission, flightRoute, clock.Now())
	elapsed := time.Since(started)
	if err != nil {
		fatal(ctx, log, "compute timeline", err)
	}

	if err := render(timeline, *format); err != nil {
		fatal(ctx, log, "render timeline", err)
	}

	if *listen != "" {
		serveMetrics(ctx, log, *listen, timeline, clock, elapsed)
	}
}

func loadCatalog(ctx context.Context, log logging.Logger, path string) (*catalog.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snapshot, warnings, err := catalog.LoadSnapshot(f)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn(ctx, "catalog feature skipped", logging.String("error", w.Error()))
	}
	return catalog.NewStore(snapshot), nil
}

func render(tl *model.MissionTimeline, format string) error {
	if format == "json" {
		out, err := json.MarshalIndent(tl, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("mission %s  %s - %s\n", tl.MissionID,
		tl.Start.UTC().Format(time.RFC3339), tl.End.UTC().Format(time.RFC3339))
	fmt.Printf("nominal %.0fs  degraded %.0fs  critical %.0fs\n\n",
		tl.Stats.NominalSeconds, tl.Stats.DegradedSeconds, tl.Stats.CriticalSeconds)

	for i := range tl.Segments {
		seg := &tl.Segments[i]
		fmt.Printf("%-14s %s - %s  %-8s x=%s ka=%s ku=%s",
			seg.ID,
			seg.Start.UTC().Format("15:04:05"), seg.End.UTC().Format("15:04:05"),
			seg.Status, seg.XState, seg.KaState, seg.KuState)
		if len(seg.Reasons) > 0 {
			fmt.Printf("  %v", seg.Reasons)
		}
		fmt.Println()
	}

	if len(tl.Advisories) > 0 {
		fmt.Println()
		for i := range tl.Advisories {
			adv := &tl.Advisories[i]
			fmt.Printf("[%s] %s\n", adv.Severity, adv.Message)
		}
	}
	if len(tl.Diagnostics) > 0 {
		fmt.Println()
		for _, d := range tl.Diagnostics {
			fmt.Printf("%s (%s): %s\n", d.Severity, d.Code, d.Message)
		}
	}
	return nil
}

func serveMetrics(ctx context.Context, log logging.Logger, addr string, tl *model.MissionTimeline, clock timectrl.Clock, elapsed time.Duration) {
	collector, err := observability.NewTimelineCollector(nil)
	if err != nil {
		fatal(ctx, log, "init metrics", err)
	}
	collector.RecordComputation("ok", elapsed)
	collector.ObserveTimeline(tl, clock.Now())

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving metrics", logging.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fatal(ctx, log, "metrics server", err)
	}
}

func fatal(ctx context.Context, log logging.Logger, what string, err error) {
	log.Error(ctx, what+" failed", logging.String("error", err.Error()))
	os.Exit(1)
}
