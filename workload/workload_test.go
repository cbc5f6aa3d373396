package workload

import (
	"errors"
	"testing"

	"finbench/operation"
	"finbench/truncation"

	"gopkg.in/yaml.v3"
)

func TestScenariosCoverEveryKind(t *testing.T) {
	ops := Scenarios()
	kinds := operation.Kinds()
	if len(ops) != len(kinds) {
		t.Fatalf("got %d scenarios, want %d", len(ops), len(kinds))
	}
	for i, op := range ops {
		if op.Kind() != kinds[i] {
			t.Errorf("scenario %d is %s, want %s", i, op.Kind(), kinds[i])
		}
		if err := op.Validate(); err != nil {
			t.Errorf("%s: %v", op.Kind(), err)
		}
	}

	cr1 := ops[0].(operation.ComplexRead1)
	if cr1.AccountID != 30786325579101 || !cr1.StartTime.Equal(jan1) || !cr1.EndTime.Equal(jan2) {
		t.Errorf("unexpected ComplexRead1 parameters: %+v", cr1)
	}
	if cr1.TruncationLimit != Limit || cr1.TruncationOrder != truncation.TimestampDescending {
		t.Errorf("unexpected ComplexRead1 truncation: %+v", cr1.Truncation)
	}
}

const runFile = `
- kind: ComplexRead1
  params: [30786325579101, "2023-01-01", "2023-01-02", 10, TIMESTAMP_DESCENDING]
- kind: "2001"
  params: [46661186336351, Alice, false, "", "", "", ""]
- kind: ReadWrite1
  params: [10988200445031, 71195197152144, 1675209600000, 10.5, 2023-02-01, 2023-02-02]
`

func TestBuildFromYaml(t *testing.T) {
	specs := []Spec{}
	if err := yaml.Unmarshal([]byte(runFile), &specs); err != nil {
		t.Fatal(err)
	}

	ops, err := Build(specs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d operations", len(ops))
	}

	if w1, ok := ops[1].(operation.Write1); !ok || w1.PersonName != "Alice" {
		t.Errorf("unexpected second operation %#v", ops[1])
	}
	rw1, ok := ops[2].(operation.ReadWrite1)
	if !ok {
		t.Fatalf("third operation is %T", ops[2])
	}
	if !rw1.Time.Equal(feb1) || rw1.Amount != 10.5 || !rw1.EndTime.Equal(feb2) {
		t.Errorf("unexpected ReadWrite1 parameters: %+v", rw1)
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	if _, err := Build([]Spec{{Kind: "ComplexRead13"}}); err == nil {
		t.Error("expected an error for an unknown kind")
	}

	_, err := Build([]Spec{{Kind: "SimpleRead1", Params: []any{1, "2023-01-01"}}})
	if !errors.Is(err, operation.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestPartition(t *testing.T) {
	ops := Scenarios()
	parts := Partition(ops, 3)
	if len(parts) != 3 {
		t.Fatalf("got %d parts", len(parts))
	}

	total := 0
	for i, part := range parts {
		total += len(part)
		if len(part) > 0 && part[0].Kind() != ops[i].Kind() {
			t.Errorf("part %d starts with %s", i, part[0].Kind())
		}
	}
	if total != len(ops) {
		t.Errorf("partitioned %d of %d operations", total, len(ops))
	}

	if parts := Partition(ops[:2], 4); len(parts[3]) != 0 {
		t.Error("expected empty trailing partitions")
	}
}
