package driver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"

	"github.com/zeebo/blake3"
)

// ErrReporterClosed is recorded when a record arrives after the terminal signal.
var ErrReporterClosed = errors.New("reporter already received a terminal signal")

// ResultReporter receives the outcome of one dispatched operation. Records are
// delivered in the order the handler emits them, followed by exactly one of
// Complete or Fail.
type ResultReporter interface {
	Report(record any)
	Complete()
	Fail(err error)
}

type State int

const (
	Pending State = iota
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "pending"
}

// SimpleResultReporter collects the records of one operation in order.
type SimpleResultReporter struct {
	mu      sync.Mutex
	records []any
	state   State
	err     error
}

func NewSimpleResultReporter() *SimpleResultReporter {
	return &SimpleResultReporter{records: []any{}}
}

func (r *SimpleResultReporter) Report(record any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Pending {
		if !errors.Is(r.err, ErrReporterClosed) {
			r.err = errors.Join(r.err, ErrReporterClosed)
		}
		return
	}
	r.records = append(r.records, record)
}

func (r *SimpleResultReporter) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Pending {
		r.state = Completed
	}
}

func (r *SimpleResultReporter) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Pending {
		r.state = Failed
		r.err = err
	}
}

// Returns a copy of the reported records
func (r *SimpleResultReporter) Records() []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]any{}, r.records...)
}

func (r *SimpleResultReporter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

func (r *SimpleResultReporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

// Digest hashes the json encoding of the records, in order, with blake3. Two runs
// reporting the same records produce the same digest.
func (r *SimpleResultReporter) Digest() (string, error) {
	return Digest(r.Records())
}

func Digest(records []any) (string, error) {
	h := blake3.New()
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return "", err
		}
		h.Write(data)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
