package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

type benchProfile struct {
	Name       string
	Sessions   int
	Iterations int
	ListSize   int
}

var benchProfiles = map[string]benchProfile{
	"fast": {
		Name:       "fast",
		Sessions:   4,
		Iterations: 200,
		ListSize:   50,
	},
	"standard": {
		Name:       "standard",
		Sessions:   16,
		Iterations: 1000,
		ListSize:   100,
	},
	"stress": {
		Name:       "stress",
		Sessions:   64,
		Iterations: 2000,
		ListSize:   500,
	},
}

type benchConfig struct {
	benchProfile
	Modules    []string
	Seed       uint64
	JSONOutput string
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        benchRun       `json:"run"`
	Workload   benchWorkload  `json:"workload"`
	LatencyMS  benchLatency   `json:"latency_ms"`
	Throughput benchRate      `json:"throughput"`
	Ops        map[string]int `json:"ops"`
}

type benchRun struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	Version   string `json:"vtree_version"`
}

type benchWorkload struct {
	Profile    string   `json:"profile"`
	Sessions   int      `json:"sessions"`
	Iterations int      `json:"iterations"`
	ListSize   int      `json:"list_size"`
	Modules    []string `json:"modules"`
	Seed       uint64   `json:"seed"`
}

type benchLatency struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type benchRate struct {
	Passes       int     `json:"passes"`
	PassesPerSec float64 `json:"passes_per_sec"`
	OpsTotal     int     `json:"ops_total"`
	OpsPerPass   float64 `json:"ops_per_pass"`
}

// benchResult is what one session reports back.
type benchResult struct {
	latencies []time.Duration
	ops       map[string]int
}

func benchCmd(flags *globalFlags) *cobra.Command {
	var (
		profileName string
		sessions    int
		iterations  int
		listSize    int
		moduleNames []string
		seed        uint64
		jsonOut     string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark keyed list reconciliation",
		Long: `Run concurrent in-process sessions, each patching a keyed list
through random reorders, insertions, removals and text edits.

Profiles:
  fast      4 sessions, 200 passes, 50 items
  standard  16 sessions, 1000 passes, 100 items
  stress    64 sessions, 2000 passes, 500 items

Examples:
  vtree bench
  vtree bench --profile standard --json report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := benchProfiles[profileName]
			if !ok {
				return errors.New("E121").
					WithDetailf("Unknown bench profile %q", profileName).
					WithSuggestion("Use fast, standard or stress")
			}
			cfg := benchConfig{
				benchProfile: profile,
				Modules:      moduleNames,
				Seed:         seed,
				JSONOutput:   jsonOut,
			}
			if cmd.Flags().Changed("sessions") {
				cfg.Sessions = sessions
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = iterations
			}
			if cmd.Flags().Changed("list-size") {
				cfg.ListSize = listSize
			}
			if len(cfg.Modules) == 0 {
				cfg.Modules = flags.cfg.Modules
			}
			if cfg.Sessions < 1 || cfg.Iterations < 1 || cfg.ListSize < 1 {
				return errors.New("E121").WithDetail("sessions, iterations and list-size must be positive")
			}

			report, err := runBench(flags.cfg, cfg)
			if err != nil {
				return err
			}
			writeBenchSummary(cmd.OutOrStdout(), report)
			if cfg.JSONOutput == "" {
				return nil
			}
			return writeBenchJSON(cmd.OutOrStdout(), cfg.JSONOutput, report)
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "fast", "Workload profile: fast, standard, stress")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "Concurrent sessions (overrides profile)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Patch passes per session (overrides profile)")
	cmd.Flags().IntVar(&listSize, "list-size", 0, "Items in the keyed list (overrides profile)")
	cmd.Flags().StringSliceVarP(&moduleNames, "modules", "m", nil, "Modules to run, in order (default from vtree.json)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&jsonOut, "json", "", `Write a JSON report to this path ("-" for stdout)`)

	return cmd
}

func runBench(fileCfg *config.Config, cfg benchConfig) (benchReport, error) {
	// Build one engine up front so a bad module list fails before any
	// goroutine starts.
	if _, err := newEngine(fileCfg, cfg.Modules); err != nil {
		return benchReport{}, err
	}

	results := make([]benchResult, cfg.Sessions)
	errs := make([]error, cfg.Sessions)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.Sessions)
	for i := 0; i < cfg.Sessions; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = runBenchSession(fileCfg, cfg, i)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	for _, err := range errs {
		if err != nil {
			return benchReport{}, err
		}
	}

	var latencies []time.Duration
	ops := make(map[string]int)
	opsTotal := 0
	for _, r := range results {
		latencies = append(latencies, r.latencies...)
		for k, n := range r.ops {
			ops[k] += n
			opsTotal += n
		}
	}
	slices.Sort(latencies)

	return buildBenchReport(cfg, elapsed, latencies, ops, opsTotal), nil
}

// runBenchSession mounts a keyed list and patches it cfg.Iterations times.
func runBenchSession(fileCfg *config.Config, cfg benchConfig, id int) (benchResult, error) {
	eng, err := newEngine(fileCfg, cfg.Modules)
	if err != nil {
		return benchResult{}, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(id)))

	list := newBenchList(cfg.ListSize)
	prev := eng.mount(list.render())
	eng.journal.Reset()

	res := benchResult{
		latencies: make([]time.Duration, 0, cfg.Iterations),
		ops:       make(map[string]int),
	}
	for i := 0; i < cfg.Iterations; i++ {
		list.mutate(rng)
		next := list.render()

		t0 := time.Now()
		prev = eng.patcher.Patch(prev, next)
		res.latencies = append(res.latencies, time.Since(t0))

		for _, op := range eng.journal.Drain() {
			res.ops[string(op.Kind)]++
		}
	}
	return res, nil
}

type benchItem struct {
	key   int
	label string
	hot   bool
}

// benchList is the model rendered each pass.
type benchList struct {
	items   []benchItem
	nextKey int
}

func newBenchList(n int) *benchList {
	l := &benchList{}
	for i := 0; i < n; i++ {
		l.items = append(l.items, l.newItem())
	}
	return l
}

func (l *benchList) newItem() benchItem {
	l.nextKey++
	return benchItem{key: l.nextKey, label: "item " + strconv.Itoa(l.nextKey)}
}

// mutate applies one random edit: a swap, a move, an insertion, a
// removal, a relabel or a class toggle.
func (l *benchList) mutate(rng *rand.Rand) {
	n := len(l.items)
	if n == 0 {
		l.items = append(l.items, l.newItem())
		return
	}
	i, j := rng.IntN(n), rng.IntN(n)
	switch rng.IntN(6) {
	case 0:
		l.items[i], l.items[j] = l.items[j], l.items[i]
	case 1:
		it := l.items[i]
		l.items = slices.Delete(l.items, i, i+1)
		l.items = slices.Insert(l.items, min(j, len(l.items)), it)
	case 2:
		l.items = slices.Insert(l.items, i, l.newItem())
	case 3:
		if n > 1 {
			l.items = slices.Delete(l.items, i, i+1)
		}
	case 4:
		l.items[i].label = "item " + strconv.Itoa(l.items[i].key) + " v" + strconv.Itoa(rng.IntN(100))
	default:
		l.items[i].hot = !l.items[i].hot
	}
}

func (l *benchList) render() *vdom.VNode {
	rows := vdom.Keyed(l.items,
		func(it benchItem) vdom.Key { return it.key },
		func(it benchItem) *vdom.VNode {
			return vdom.H("li.row", &vdom.Data{
				Class: map[string]bool{"hot": it.hot},
				Attrs: map[string]any{"data-key": it.key},
			}, it.label)
		},
	)
	return vdom.H("div#root", vdom.H("ul.list", rows))
}

func buildBenchReport(cfg benchConfig, elapsed time.Duration, latencies []time.Duration, ops map[string]int, opsTotal int) benchReport {
	passes := len(latencies)
	elapsedSeconds := math.Max(0.001, elapsed.Seconds())

	latency := benchLatency{}
	if passes > 0 {
		latency = benchLatency{
			Min: ms(latencies[0]),
			P50: ms(percentile(latencies, 0.50)),
			P95: ms(percentile(latencies, 0.95)),
			P99: ms(percentile(latencies, 0.99)),
			Max: ms(latencies[passes-1]),
		}
	}
	opsPerPass := 0.0
	if passes > 0 {
		opsPerPass = float64(opsTotal) / float64(passes)
	}

	return benchReport{
		Version: "1",
		Run: benchRun{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
			Version:   version,
		},
		Workload: benchWorkload{
			Profile:    cfg.Name,
			Sessions:   cfg.Sessions,
			Iterations: cfg.Iterations,
			ListSize:   cfg.ListSize,
			Modules:    cfg.Modules,
			Seed:       cfg.Seed,
		},
		LatencyMS: latency,
		Throughput: benchRate{
			Passes:       passes,
			PassesPerSec: float64(passes) / elapsedSeconds,
			OpsTotal:     opsTotal,
			OpsPerPass:   opsPerPass,
		},
		Ops: ops,
	}
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func writeBenchSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== vtree reconciliation benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Sessions: %d\n", report.Workload.Sessions)
	fmt.Fprintf(w, "Passes per session: %d\n", report.Workload.Iterations)
	fmt.Fprintf(w, "List size: %d\n", report.Workload.ListSize)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total passes: %d\n", report.Throughput.Passes)
	fmt.Fprintf(w, "Throughput: %.1f passes/s\n", report.Throughput.PassesPerSec)
	fmt.Fprintf(w, "Ops: %d (%.2f per pass)\n", report.Throughput.OpsTotal, report.Throughput.OpsPerPass)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Patch latency:")
	fmt.Fprintf(w, "  min: %.3f ms\n", report.LatencyMS.Min)
	fmt.Fprintf(w, "  p50: %.3f ms\n", report.LatencyMS.P50)
	fmt.Fprintf(w, "  p95: %.3f ms\n", report.LatencyMS.P95)
	fmt.Fprintf(w, "  p99: %.3f ms\n", report.LatencyMS.P99)
	fmt.Fprintf(w, "  max: %.3f ms\n", report.LatencyMS.Max)
}

func writeBenchJSON(stdout io.Writer, path string, report benchReport) error {
	out := stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
