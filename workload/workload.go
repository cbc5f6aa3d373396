package workload

import (
	"fmt"
	"strconv"
	"time"

	"finbench/operation"
	"finbench/util"
)

// Limit is the truncation limit of the canonical scenarios.
const Limit = 10

var (
	jan1 = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan2 = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	feb1 = time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC)
	feb2 = time.Date(2023, time.February, 2, 0, 0, 0, 0, time.UTC)
)

const desc = "TIMESTAMP_DESCENDING"

type scenario struct {
	kind   operation.Kind
	params []any
}

var scenarios = []scenario{
	{operation.KindComplexRead1, []any{30786325579101, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead2, []any{62042209056869, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead3, []any{23727037716838, 97461814013107, jan1, jan2}},
	{operation.KindComplexRead4, []any{39947851855474, 19680024852898, jan1, jan2}},
	{operation.KindComplexRead5, []any{67406588910829, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead6, []any{51078788755688, 1000, 2000, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead7, []any{19469276863548, 1000, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead8, []any{78332612970031, 100, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead9, []any{44670770561919, 100, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead10, []any{23457164342167, 60624749497937, jan1, jan2}},
	{operation.KindComplexRead11, []any{19908707033524, jan1, jan2, Limit, desc}},
	{operation.KindComplexRead12, []any{19908707033524, jan1, jan2, Limit, desc}},

	{operation.KindSimpleRead1, []any{71195197152144, jan1, jan2}},
	{operation.KindSimpleRead2, []any{44240260404892, jan1, jan2}},
	{operation.KindSimpleRead3, []any{82663727934233, 10, jan1, jan2}},
	{operation.KindSimpleRead4, []any{42004037637436, 10000, jan1, jan2}},
	{operation.KindSimpleRead5, []any{16486343708978, 10, jan1, jan2}},
	{operation.KindSimpleRead6, []any{49955856898317, jan1, jan2}},

	{operation.KindWrite1, []any{46661186336351, "Alice", false, "", "", "", ""}},
	{operation.KindWrite2, []any{10988200445031, "LDBC", false, "", "", "", "", ""}},
	{operation.KindWrite3, []any{10988200445031, "LDBC", false, 0, ""}},
	{operation.KindWrite4, []any{10988200445031, 46661186336351, feb1, "", false, "card", "", "", "", "", 0, ""}},
	{operation.KindWrite5, []any{71195197152144, 10988200445031, feb1, "", true, "card", "", "", "", "", 0, ""}},
	{operation.KindWrite6, []any{71195197152144, 10988200445031, 0.1, 0.1, feb1, "", 0.0, "", ""}},
	{operation.KindWrite7, []any{71195197152144, 10988200445031, 0.1, 0.1, feb1, "", 0.0, "", ""}},
	{operation.KindWrite8, []any{71195197152144, 10988200445031, feb1, 1000, ""}},
	{operation.KindWrite9, []any{71195197152144, 10988200445031, feb1, 1000, ""}},
	{operation.KindWrite10, []any{10988200445031, 71195197152144, feb1, "", ""}},
	{operation.KindWrite11, []any{10988200445031, 71195197152144, feb1, "", ""}},
	{operation.KindWrite12, []any{71195197152144, 10988200445031, feb1, 0.1, "", "", "", ""}},
	{operation.KindWrite13, []any{10988200445031, 71195197152144, feb1, 0.1, "", "", ""}},
	{operation.KindWrite14, []any{10988200445031, 71195197152144, feb1, 0.1, ""}},
	{operation.KindWrite15, []any{10988200445031, 71195197152144, feb1, 0.1, ""}},
	{operation.KindWrite16, []any{10988200445031, 71195197152144, feb1, "", ""}},
	{operation.KindWrite17, []any{10988200445031}},
	{operation.KindWrite18, []any{10988200445031}},
	{operation.KindWrite19, []any{10988200445031}},

	{operation.KindReadWrite1, []any{10988200445031, 71195197152144, feb1, 10, feb1, feb2}},
	{operation.KindReadWrite2, []any{10988200445031, 71195197152144, feb1, 10, 10000, feb1, feb2, 0.5, Limit, desc}},
	{operation.KindReadWrite3, []any{10988200445031, 71195197152144, feb1, 10000, feb1, feb2, Limit, desc}},
}

// Scenarios returns one operation per kind, in catalogue order, with the parameters
// the benchmark's reference tests use.
func Scenarios() []operation.Operation {
	ops := make([]operation.Operation, 0, len(scenarios))
	for _, s := range scenarios {
		ops = append(ops, util.Try(operation.New(s.kind, s.params...)))
	}
	return ops
}

// Spec declares an operation in a run file.
type Spec struct {
	Kind   string `yaml:"kind"`
	Params []any  `yaml:"params"`
}

// Parses a kind name such as "ComplexRead1", or its numeric type id
func parseKind(name string) (operation.Kind, error) {
	if id, err := strconv.Atoi(name); err == nil {
		if k := operation.Kind(id); k.Valid() {
			return k, nil
		}
	}
	return operation.ParseKind(name)
}

// Build constructs the declared operations, failing on the first invalid one
func Build(specs []Spec) ([]operation.Operation, error) {
	ops := make([]operation.Operation, 0, len(specs))
	for i, spec := range specs {
		kind, err := parseKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		op, err := operation.New(kind, spec.Params...)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Partition deals the operations round-robin over n workers
func Partition(ops []operation.Operation, n int) [][]operation.Operation {
	if n < 1 {
		n = 1
	}
	parts := make([][]operation.Operation, n)
	for i := range parts {
		parts[i] = []operation.Operation{}
	}
	for i, op := range ops {
		parts[i%n] = append(parts[i%n], op)
	}
	return parts
}
