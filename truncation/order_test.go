package truncation

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

type edge struct {
	dst    int64
	at     time.Time
	amount float64
}

func (e edge) TruncationKey() Key {
	return Key{Timestamp: e.at, Amount: e.amount, ID: e.dst}
}

var base = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

func sampleEdges() []edge {
	return []edge{
		{dst: 5, at: base.Add(3 * time.Hour), amount: 10},
		{dst: 2, at: base.Add(1 * time.Hour), amount: 50},
		{dst: 9, at: base.Add(3 * time.Hour), amount: 10},
		{dst: 1, at: base.Add(2 * time.Hour), amount: 70},
		{dst: 3, at: base.Add(3 * time.Hour), amount: 20},
	}
}

func ids(edges []edge) []int64 {
	out := []int64{}
	for _, e := range edges {
		out = append(out, e.dst)
	}
	return out
}

func TestTruncateOrders(t *testing.T) {
	cases := []struct {
		order Order
		limit int
		want  []int64
	}{
		{TimestampDescending, 3, []int64{3, 5, 9}},
		{TimestampDescending, NoLimit, []int64{3, 5, 9, 1, 2}},
		{TimestampAscending, 2, []int64{2, 1}},
		{AmountDescending, 2, []int64{1, 2}},
		{AmountAscending, 3, []int64{5, 9, 3}},
		{TimestampDescending, 10, []int64{3, 5, 9, 1, 2}},
	}

	for _, c := range cases {
		t.Run(c.order.String(), func(t *testing.T) {
			got := ids(Truncate(c.order, sampleEdges(), c.limit))
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Truncate(%s, %d) = %v, want %v", c.order, c.limit, got, c.want)
			}
		})
	}
}

func TestTruncateEdgeCases(t *testing.T) {
	if got := Truncate(TimestampDescending, sampleEdges(), 0); len(got) != 0 {
		t.Errorf("limit 0 returned %d elements", len(got))
	}
	if got := Truncate(TimestampDescending, []edge{}, 5); got == nil || len(got) != 0 {
		t.Errorf("empty input returned %v", got)
	}
	if got := Truncate[edge](TimestampDescending, nil, 5); got == nil || len(got) != 0 {
		t.Errorf("nil input returned %v", got)
	}
}

func TestTruncateDoesNotMutateInput(t *testing.T) {
	in := sampleEdges()
	before := ids(in)
	Truncate(AmountDescending, in, 2)
	if !reflect.DeepEqual(ids(in), before) {
		t.Errorf("input reordered: %v, want %v", ids(in), before)
	}
}

func TestTruncateDeterministicUnderShuffle(t *testing.T) {
	want := ids(Truncate(TimestampDescending, sampleEdges(), 4))
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		in := sampleEdges()
		rnd.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })
		if got := ids(Truncate(TimestampDescending, in, 4)); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: got %v, want %v", i, got, want)
		}
	}
}

func TestTruncateProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		m := rnd.Intn(30)
		l := rnd.Intn(40)
		in := make([]edge, m)
		for j := range in {
			in[j] = edge{dst: rnd.Int63n(10), at: base.Add(time.Duration(rnd.Intn(5)) * time.Hour)}
		}

		got := Truncate(TimestampDescending, in, l)
		if len(got) != min(m, l) {
			t.Fatalf("len = %d, want min(%d, %d)", len(got), m, l)
		}
		for j := 1; j < len(got); j++ {
			if got[j].at.After(got[j-1].at) {
				t.Fatalf("timestamps increase at %d: %v after %v", j, got[j].at, got[j-1].at)
			}
		}

		again := Truncate(TimestampDescending, got, len(got))
		if !reflect.DeepEqual(again, got) {
			t.Fatalf("truncation is not idempotent: %v != %v", ids(again), ids(got))
		}
	}
}

func TestParseOrder(t *testing.T) {
	for o, name := range orderNames {
		parsed, err := ParseOrder(name)
		if err != nil {
			t.Fatalf("ParseOrder(%q): %v", name, err)
		}
		if parsed != o {
			t.Errorf("ParseOrder(%q) = %v, want %v", name, parsed, o)
		}
	}
	if _, err := ParseOrder("SIDEWAYS"); err == nil {
		t.Error("expected error for unknown order")
	}
	if Order(42).Valid() {
		t.Error("Order(42) reported valid")
	}
}
