package driver

import (
	"errors"
	"testing"
	"time"

	"finbench/operation"
)

func TestSimpleResultReporterOrder(t *testing.T) {
	r := NewSimpleResultReporter()
	if r.State() != Pending || len(r.Records()) != 0 {
		t.Fatalf("fresh reporter: state %s, %d records", r.State(), len(r.Records()))
	}

	for i := int64(1); i <= 3; i++ {
		r.Report(operation.SimpleRead6Result{DstID: i})
	}
	r.Complete()
	r.Fail(errors.New("late failure"))

	records := r.Records()
	for i, rec := range records {
		if got := rec.(operation.SimpleRead6Result).DstID; got != int64(i+1) {
			t.Errorf("record %d = %d, want %d", i, got, i+1)
		}
	}
	if r.State() != Completed || r.Err() != nil {
		t.Errorf("first terminal signal must win: state %s, err %v", r.State(), r.Err())
	}

	r.Report(operation.SimpleRead6Result{DstID: 4})
	if len(r.Records()) != 3 || !errors.Is(r.Err(), ErrReporterClosed) {
		t.Errorf("report after completion: %d records, err %v", len(r.Records()), r.Err())
	}
}

func TestSimpleResultReporterFail(t *testing.T) {
	r := NewSimpleResultReporter()
	failure := errors.New("boom")
	r.Fail(failure)
	r.Complete()

	if r.State() != Failed || !errors.Is(r.Err(), failure) {
		t.Errorf("state %s, err %v", r.State(), r.Err())
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	created := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	fill := func(r *SimpleResultReporter, ids ...int64) {
		for _, id := range ids {
			r.Report(operation.ComplexRead1Result{OtherID: id, AccountDistance: 1, MediumType: "POS"})
		}
		r.Report(operation.SimpleRead1Result{CreateTime: created})
	}

	a, b, c := NewSimpleResultReporter(), NewSimpleResultReporter(), NewSimpleResultReporter()
	fill(a, 1, 2, 3)
	fill(b, 1, 2, 3)
	fill(c, 3, 2, 1)

	da, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	db, _ := b.Digest()
	dc, _ := c.Digest()

	if da != db {
		t.Errorf("identical records hash differently: %s vs %s", da, db)
	}
	if da == dc {
		t.Error("digest must depend on record order")
	}
	if len(da) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(da))
	}

	empty, _ := NewSimpleResultReporter().Digest()
	if empty == da {
		t.Error("empty result shares a digest with a non-empty one")
	}
}
