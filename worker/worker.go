package worker

import (
	"context"
	"sync"
	"time"

	"finbench/driver"
	"finbench/operation"
	"finbench/reporter"
	"finbench/util"

	zlog "github.com/rs/zerolog/log"
)

// Worker dispatches its share of the workload, one operation at a time, through a Db.
type Worker struct {
	id              int
	db              *driver.Db
	sink            reporter.Sink
	operations      []operation.Operation
	operationsToLog chan *OperationLogEntry
	operationLogWg  *sync.WaitGroup
}

type OperationLogEntry struct {
	kind    operation.Kind
	rt      float64
	records int
	err     error
	t       time.Time
}

type Metric struct {
	CompleteCount int // number of completed operations
	AbortCount    int // number of failed operations
}

type Results struct {
	Worker     int
	Operations map[operation.Kind]*Metric
}

func NewWorker(id int, db *driver.Db, sink reporter.Sink, operations []operation.Operation) *Worker {
	worker := new(Worker)
	worker.id = id
	worker.db = db
	worker.sink = sink
	worker.operations = operations
	worker.operationsToLog = make(chan *OperationLogEntry, 1024)
	worker.operationLogWg = &sync.WaitGroup{}
	return worker
}

func (w *Worker) log(msg string) {
	zlog.Info().Int("worker", w.id).Int("operations", len(w.operations)).Msg(msg)
}

func (w *Worker) logOperationsWorker() {
	defer w.operationLogWg.Done()

	for entry := range w.operationsToLog {
		if entry.err == nil {
			zlog.Debug().Int("worker", w.id).Stringer("kind", entry.kind).Int("records", entry.records).
				Float64("rt", entry.rt).Time("real_time", entry.t).Msg("completed")
		} else {
			zlog.Debug().Int("worker", w.id).Stringer("kind", entry.kind).Err(entry.err).
				Float64("rt", entry.rt).Time("real_time", entry.t).Msg("aborted")
		}
	}
}

// Run executes the worker's operations in order and sends its results to c. It stops
// early, counting nothing more, when ctx is cancelled.
func (w *Worker) Run(ctx context.Context, c chan<- *Results) {
	w.operationLogWg.Add(1)
	go w.logOperationsWorker()

	results := Results{Worker: w.id, Operations: map[operation.Kind]*Metric{}}
	w.log("Running")

	for _, op := range w.operations {
		if ctx.Err() != nil {
			break
		}

		r := w.sink.Reporter(op)
		txStart := util.EpochSeconds()
		err := w.db.Execute(ctx, op, r)
		rt := util.EpochSeconds() - txStart
		w.operationsToLog <- &OperationLogEntry{op.Kind(), rt, len(r.Records()), err, time.Now()}

		metric, ok := results.Operations[op.Kind()]
		if !ok {
			metric = &Metric{}
			results.Operations[op.Kind()] = metric
		}
		if err == nil {
			metric.CompleteCount++
		} else {
			metric.AbortCount++
		}
	}

	close(w.operationsToLog)
	w.operationLogWg.Wait()
	w.log("Done")

	c <- &results
}

// Merge sums the per kind metrics of all workers
func Merge(all []*Results) map[operation.Kind]*Metric {
	merged := map[operation.Kind]*Metric{}
	for _, results := range all {
		for kind, m := range results.Operations {
			total, ok := merged[kind]
			if !ok {
				total = &Metric{}
				merged[kind] = total
			}
			total.CompleteCount += m.CompleteCount
			total.AbortCount += m.AbortCount
		}
	}
	return merged
}
