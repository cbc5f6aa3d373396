package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"finbench/driver"
	"finbench/engines/relational"
	riak_engine "finbench/engines/riak"
	"finbench/operation"
	"finbench/reporter"
	"finbench/util"
	"finbench/worker"
	"finbench/workload"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type RunArgs struct {
	Engine     string            `yaml:"engine"`
	Properties map[string]string `yaml:"properties"`
	Workers    []int             `yaml:"workers"`
	Runs       int               `yaml:"runs"`
	Scenarios  bool              `yaml:"scenarios"`
	Operations []workload.Spec   `yaml:"operations"`
	Results    reporter.Config   `yaml:"results"`
}

type ProcessedResult struct {
	name      string
	completed float64
	aborted   float64
}

// Prepare zerolog
func setupLogging(disableLog bool, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var zlevel zerolog.Level
	if disableLog {
		zlevel = zerolog.Disabled
	} else if level == "info" {
		zlevel = zerolog.InfoLevel
	} else {
		zlevel = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(zlevel)
}

// Returns a RunArgs struct with the information in the config data.
func parseArgs(data []byte) (*RunArgs, error) {
	args := RunArgs{Engine: "relational", Workers: []int{1}, Runs: 1}
	if err := yaml.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	if len(args.Workers) == 0 || slices.Min(args.Workers) < 1 {
		return nil, fmt.Errorf("%w: workers must be positive, got %v", driver.ErrConfig, args.Workers)
	}
	if args.Runs < 1 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", driver.ErrConfig, args.Runs)
	}
	return &args, nil
}

func buildArgs(configFile string) *RunArgs {
	if configFile == "" {
		log.Fatal("Missing config file.")
	}
	args, err := parseArgs(util.Try(os.ReadFile(configFile)))
	if err != nil {
		log.Fatal(err)
	}
	return args
}

// Returns the engine and the handlers it registers
func createEngine(name string) (driver.Engine, driver.Registry, error) {
	switch name {
	case "relational":
		return relational.New(), relational.Handlers(), nil
	case "riak":
		return riak_engine.New(), riak_engine.Handlers(), nil
	}
	return nil, nil, fmt.Errorf("%w: engine '%s' not found", driver.ErrConfig, name)
}

// Returns the operations of a run: the reference scenarios, then the declared ones
func buildOperations(args *RunArgs, registry driver.Registry) ([]operation.Operation, error) {
	ops := []operation.Operation{}
	if args.Scenarios {
		for _, op := range workload.Scenarios() {
			// engines only register what they can answer
			if _, ok := registry[op.Kind()]; ok {
				ops = append(ops, op)
			}
		}
	}
	declared, err := workload.Build(args.Operations)
	if err != nil {
		return nil, err
	}
	return append(ops, declared...), nil
}

// Returns the engine-specific metrics, if it has any
func engineMetrics(ctx context.Context, engine driver.Engine) map[string]string {
	m, ok := engine.(interface {
		Metrics(context.Context) (map[string]string, error)
	})
	if !ok {
		return map[string]string{}
	}
	metrics, err := m.Metrics(ctx)
	if err != nil {
		zlog.Warn().Err(err).Str("engine", engine.Name()).Msg("Failed to read metrics")
		return map[string]string{}
	}
	return metrics
}

// Runs the operations once with nWorkers and returns the per worker results
func runOnce(ctx context.Context, args *RunArgs, nWorkers int) ([]*worker.Results, map[string]string, error) {
	engine, registry, err := createEngine(args.Engine)
	if err != nil {
		return nil, nil, err
	}
	ops, err := buildOperations(args, registry)
	if err != nil {
		return nil, nil, err
	}

	db := driver.NewDb(engine)
	if err := db.Init(ctx, args.Properties, registry); err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			zlog.Error().Err(err).Msg("Failed to close db")
		}
	}()

	run := uuid.NewString()
	sink, err := reporter.Open(ctx, run, args.Results)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			zlog.Error().Err(err).Str("run", run).Msg("Failed to close results sink")
		}
	}()

	metrics := map[string]string{}
	for k, v := range engineMetrics(ctx, engine) {
		metrics["start"+strings.ToUpper(k[:1])+k[1:]] = v
	}

	zlog.Info().Str("run", run).Int("operations", len(ops)).Int("workers", nWorkers).Msg("Running")
	c := make(chan *worker.Results)
	parts := workload.Partition(ops, nWorkers)
	for i, part := range parts {
		go worker.NewWorker(i, db, sink, part).Run(ctx, c)
	}
	results := []*worker.Results{}
	for range parts {
		results = append(results, <-c)
	}

	for k, v := range engineMetrics(ctx, engine) {
		metrics["end"+strings.ToUpper(k[:1])+k[1:]] = v
	}
	return results, metrics, nil
}

// Computes the average value of a list of results
func avgMetric(results []ProcessedResult, metric func(ProcessedResult) float64) float64 {
	var total float64
	for _, r := range results {
		total += metric(r)
	}
	return total / float64(len(results))
}

// Combines the results of all workers per operation kind and in total, averaging the
// counts over the runs
func aggregateResults(allResults [][]*worker.Results) map[string]ProcessedResult {
	// operation -> values of each run
	processedResults := map[string][]ProcessedResult{}

	for _, results := range allResults {
		total := ProcessedResult{name: "total"}
		for kind, m := range worker.Merge(results) {
			processedResults[kind.String()] = append(processedResults[kind.String()], ProcessedResult{
				name:      kind.String(),
				completed: float64(m.CompleteCount),
				aborted:   float64(m.AbortCount),
			})
			total.completed += float64(m.CompleteCount)
			total.aborted += float64(m.AbortCount)
		}
		processedResults["total"] = append(processedResults["total"], total)
	}

	aggregated := map[string]ProcessedResult{}
	for k, v := range processedResults {
		aggregated[k] = ProcessedResult{
			name:      k,
			completed: avgMetric(v, func(r ProcessedResult) float64 { return r.completed }),
			aborted:   avgMetric(v, func(r ProcessedResult) float64 { return r.aborted }),
		}
	}
	return aggregated
}

// Prints a summary of the results: one CsvOps line per operation kind, a Csv line
// with the totals and the engine metrics, and the same totals as key-value pairs.
func printSummary(w io.Writer, aggregated map[string]ProcessedResult, args *RunArgs, nWorkers int, metrics map[string]string, firstLine bool) {
	sortedMetrics := slices.Sorted(maps.Keys(metrics))
	sortedOps := []operation.Kind{}
	for k := range aggregated {
		if kind, err := operation.ParseKind(k); err == nil {
			sortedOps = append(sortedOps, kind)
		}
	}
	slices.Sort(sortedOps)

	if firstLine {
		header := "Csv:engine,runs,workers"
		if len(sortedMetrics) > 0 {
			header += "," + strings.Join(sortedMetrics, ",")
		}
		fmt.Fprintln(w, header+",completed,aborted")
		fmt.Fprintln(w, "CsvOps:engine,runs,workers,operation,completed,aborted")
	}

	csv := fmt.Sprintf("Csv:%s,%d,%d", args.Engine, args.Runs, nWorkers)
	csvOps := fmt.Sprintf("CsvOps:%s,%d,%d", args.Engine, args.Runs, nWorkers)
	kv := fmt.Sprintf("engine: %s\nruns: %d\nworkers: %d", args.Engine, args.Runs, nWorkers)

	for _, metric := range sortedMetrics {
		csv += fmt.Sprintf(",%s", metrics[metric])
		kv += fmt.Sprintf("\n%s: %s", metric, metrics[metric])
	}

	for _, kind := range sortedOps {
		result := aggregated[kind.String()]
		fmt.Fprintln(w, csvOps+fmt.Sprintf(",%s,%.0f,%.0f", kind, result.completed, result.aborted))
	}

	if total, ok := aggregated["total"]; ok {
		csv += fmt.Sprintf(",%.0f,%.0f", total.completed, total.aborted)
		kv += fmt.Sprintf("\ncompleted: %.0f\naborted: %.0f", total.completed, total.aborted)
	}

	fmt.Fprintln(w, csv)
	fmt.Fprintln(w, kv)
}

func main() {
	disableLog := flag.Bool("no-log", false, "Disables the log")
	configFile := flag.String("conf", "", "Run config file")
	logLevel := flag.String("level", "debug", "Log level (info|debug)")
	flag.Parse()

	setupLogging(*disableLog, *logLevel)
	args := buildArgs(*configFile)
	ctx := context.Background()

	for i, nWorkers := range args.Workers {
		zlog.Info().Int("workers", nWorkers).Msg("Run started")

		allResults := [][]*worker.Results{}
		metrics := map[string]string{}
		for j := 0; j < args.Runs; j++ {
			results, runMetrics, err := runOnce(ctx, args, nWorkers)
			if err != nil {
				log.Fatal(err)
			}
			allResults = append(allResults, results)
			if len(metrics) == 0 {
				metrics = runMetrics
			}
		}

		printSummary(os.Stdout, aggregateResults(allResults), args, nWorkers, metrics, i == 0)
		zlog.Info().Int("workers", nWorkers).Msg("Run ended")
	}
}
