package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"finbench/driver"
	"finbench/operation"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
)

// Sink hands out one reporter per dispatch and persists each operation's outcome
// when the reporter receives its terminal signal.
type Sink interface {
	Reporter(op operation.Operation) *Reporter
	Close() error
}

// Entry is the persisted outcome of one operation.
type Entry struct {
	Run       string            `json:"run"`
	Kind      string            `json:"kind"`
	Operation json.RawMessage   `json:"operation"`
	State     string            `json:"state"`
	Error     string            `json:"error,omitempty"`
	Records   []json.RawMessage `json:"records"`
	Digest    string            `json:"digest"`
}

// Reporter collects the records of one operation and publishes them to its sink
// on Complete or Fail.
type Reporter struct {
	*driver.SimpleResultReporter
	op      operation.Operation
	run     string
	publish func(Entry) error
	once    sync.Once
}

func newReporter(run string, op operation.Operation, publish func(Entry) error) *Reporter {
	return &Reporter{
		SimpleResultReporter: driver.NewSimpleResultReporter(),
		op:                   op,
		run:                  run,
		publish:              publish,
	}
}

func (r *Reporter) Complete() {
	r.SimpleResultReporter.Complete()
	r.flush()
}

func (r *Reporter) Fail(err error) {
	r.SimpleResultReporter.Fail(err)
	r.flush()
}

func (r *Reporter) flush() {
	r.once.Do(func() {
		if r.publish == nil {
			return
		}
		entry, err := r.Entry()
		if err == nil {
			err = r.publish(entry)
		}
		if err != nil {
			zlog.Error().Err(err).Str("run", r.run).Stringer("kind", r.op.Kind()).Msg("Failed to publish result")
		}
	})
}

// Entry snapshots the reporter
func (r *Reporter) Entry() (Entry, error) {
	op, err := json.Marshal(r.op)
	if err != nil {
		return Entry{}, err
	}

	records := r.Records()
	entry := Entry{
		Run:       r.run,
		Kind:      r.op.Kind().String(),
		Operation: op,
		State:     r.State().String(),
		Records:   make([]json.RawMessage, 0, len(records)),
	}
	if err := r.Err(); err != nil {
		entry.Error = err.Error()
	}
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return Entry{}, err
		}
		entry.Records = append(entry.Records, data)
	}
	if entry.Digest, err = driver.Digest(records); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Discard keeps results in memory only.
type Discard struct {
	Run string
}

func (d Discard) Reporter(op operation.Operation) *Reporter {
	return newReporter(d.Run, op, nil)
}

func (Discard) Close() error {
	return nil
}

// Records the first publish failure of a sink
type failures struct {
	mu    sync.Mutex
	first error
}

func (f *failures) add(err error) error {
	if err != nil {
		f.mu.Lock()
		if f.first == nil {
			f.first = err
		}
		f.mu.Unlock()
	}
	return err
}

func (f *failures) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.first
}

var ErrUnknownSink = errors.New("unknown result sink")

type Config struct {
	Sink      string `yaml:"sink"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redisAddr"`
}

// Open builds the sink named by cfg. An empty name or "none" discards results.
func Open(ctx context.Context, run string, cfg Config) (Sink, error) {
	switch cfg.Sink {
	case "", "none":
		return Discard{Run: run}, nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: file sink needs a path", driver.ErrConfig)
		}
		file, err := NewFile(run, cfg.Path)
		if err != nil {
			return nil, err
		}
		return file, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: redis sink needs redisAddr", driver.ErrConfig)
		}
		sink, err := NewRedis(ctx, run, &redis.Options{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSink, cfg.Sink)
}
