package truncation

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Order is the sort-and-limit policy applied to unbounded edge or result sequences.
type Order int

const (
	TimestampDescending Order = iota + 1
	TimestampAscending
	AmountDescending
	AmountAscending
)

var orderNames = map[Order]string{
	TimestampDescending: "TIMESTAMP_DESCENDING",
	TimestampAscending:  "TIMESTAMP_ASCENDING",
	AmountDescending:    "AMOUNT_DESCENDING",
	AmountAscending:     "AMOUNT_ASCENDING",
}

// NoLimit disables truncation; the sequence is still sorted.
const NoLimit = -1

func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

func (o Order) Valid() bool {
	_, ok := orderNames[o]
	return ok
}

// Returns the order with the given benchmark name (e.g. TIMESTAMP_DESCENDING)
func ParseOrder(name string) (Order, error) {
	for o, n := range orderNames {
		if n == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown truncation order %q", name)
}

func (o Order) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid truncation order %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(text []byte) error {
	parsed, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Key is the projection an order sorts on. ID is the secondary key that breaks ties
// in the primary key; Seq breaks the remaining ties between parallel edges.
type Key struct {
	Timestamp time.Time
	Amount    float64
	ID        int64
	Seq       int64
}

// Keyed is anything that can be truncated.
type Keyed interface {
	TruncationKey() Key
}

func (o Order) compare(a, b Key) int {
	var c int
	switch o {
	case TimestampDescending:
		c = b.Timestamp.Compare(a.Timestamp)
	case TimestampAscending:
		c = a.Timestamp.Compare(b.Timestamp)
	case AmountDescending:
		c = cmp.Compare(b.Amount, a.Amount)
	case AmountAscending:
		c = cmp.Compare(a.Amount, b.Amount)
	}
	if c != 0 {
		return c
	}
	if c = cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// Truncate returns a sorted copy of items holding at most limit elements. The input is
// never modified. A negative limit sorts without truncating.
func Truncate[T Keyed](order Order, items []T, limit int) []T {
	if limit == 0 || len(items) == 0 {
		return []T{}
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return order.compare(a.TruncationKey(), b.TruncationKey())
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
