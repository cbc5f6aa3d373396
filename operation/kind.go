package operation

import (
	"fmt"
	"slices"
)

// Kind identifies one of the transaction workload's operation types. The values are the
// workload's numeric type ids.
type Kind int

const (
	KindComplexRead1 Kind = iota + 1
	KindComplexRead2
	KindComplexRead3
	KindComplexRead4
	KindComplexRead5
	KindComplexRead6
	KindComplexRead7
	KindComplexRead8
	KindComplexRead9
	KindComplexRead10
	KindComplexRead11
	KindComplexRead12
)

const (
	KindSimpleRead1 Kind = iota + 1001
	KindSimpleRead2
	KindSimpleRead3
	KindSimpleRead4
	KindSimpleRead5
	KindSimpleRead6
)

const (
	KindWrite1 Kind = iota + 2001
	KindWrite2
	KindWrite3
	KindWrite4
	KindWrite5
	KindWrite6
	KindWrite7
	KindWrite8
	KindWrite9
	KindWrite10
	KindWrite11
	KindWrite12
	KindWrite13
	KindWrite14
	KindWrite15
	KindWrite16
	KindWrite17
	KindWrite18
	KindWrite19
)

const (
	KindReadWrite1 Kind = iota + 3001
	KindReadWrite2
	KindReadWrite3
)

type Category int

const (
	ComplexRead Category = iota + 1
	SimpleRead
	Write
	ReadWrite
)

func (c Category) String() string {
	switch c {
	case ComplexRead:
		return "ComplexRead"
	case SimpleRead:
		return "SimpleRead"
	case Write:
		return "Write"
	case ReadWrite:
		return "ReadWrite"
	}
	return "Unknown"
}

var categoryRanges = []struct {
	category Category
	first    Kind
	last     Kind
}{
	{ComplexRead, KindComplexRead1, KindComplexRead12},
	{SimpleRead, KindSimpleRead1, KindSimpleRead6},
	{Write, KindWrite1, KindWrite19},
	{ReadWrite, KindReadWrite1, KindReadWrite3},
}

// Returns the category of the kind, or 0 for an unknown kind
func (k Kind) Category() Category {
	for _, r := range categoryRanges {
		if k >= r.first && k <= r.last {
			return r.category
		}
	}
	return 0
}

func (k Kind) Valid() bool {
	return k.Category() != 0
}

func (k Kind) String() string {
	for _, r := range categoryRanges {
		if k >= r.first && k <= r.last {
			return fmt.Sprintf("%s%d", r.category, int(k-r.first)+1)
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Returns every kind of the workload, in ascending id order
func Kinds() []Kind {
	kinds := []Kind{}
	for _, r := range categoryRanges {
		for k := r.first; k <= r.last; k++ {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Returns the kind with the given name (e.g. ComplexRead1)
func ParseKind(name string) (Kind, error) {
	i := slices.IndexFunc(Kinds(), func(k Kind) bool { return k.String() == name })
	if i < 0 {
		return 0, fmt.Errorf("unknown operation kind %q", name)
	}
	return Kinds()[i], nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid operation kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
