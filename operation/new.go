package operation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"finbench/truncation"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// Reads an ordered, untyped parameter list, remembering the first failure
type params struct {
	kind   Kind
	values []any
	pos    int
	err    error
}

func (p *params) fail(name, format string, args ...any) {
	if p.err == nil {
		p.err = &ParameterError{Kind: p.kind, Param: name, Position: p.pos, Reason: fmt.Sprintf(format, args...)}
	}
}

func (p *params) next(name string) (any, bool) {
	if p.err != nil {
		return nil, false
	}
	if p.pos >= len(p.values) {
		p.fail(name, "missing parameter (got %d)", len(p.values))
		return nil, false
	}
	v := p.values[p.pos]
	p.pos++
	return v, true
}

func (p *params) id(name string) int64 {
	v, ok := p.next(name)
	if !ok {
		return 0
	}
	i, ok := toInt64(v)
	if !ok {
		p.fail(name, "expected an integer id, got %T", v)
	}
	return i
}

func (p *params) int(name string) int {
	v, ok := p.next(name)
	if !ok {
		return 0
	}
	i, ok := toInt64(v)
	if !ok {
		p.fail(name, "expected an integer, got %T", v)
		return 0
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		p.fail(name, "%d out of int32 range", i)
		return 0
	}
	return int(i)
}

func (p *params) float(name string) float64 {
	v, ok := p.next(name)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			p.fail(name, "expected a number, got %q", x)
		}
		return f
	}
	i, ok := toInt64(v)
	if !ok {
		p.fail(name, "expected a number, got %T", v)
	}
	return float64(i)
}

func (p *params) str(name string) string {
	v, ok := p.next(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.fail(name, "expected a string, got %T", v)
	}
	return s
}

func (p *params) bool(name string) bool {
	v, ok := p.next(name)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		p.fail(name, "expected a bool, got %T", v)
	}
	return b
}

// Timestamps are time.Time values, formatted strings or unix milliseconds, all in UTC
func (p *params) time(name string) time.Time {
	v, ok := p.next(name)
	if !ok {
		return time.Time{}
	}
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, x, time.UTC); err == nil {
				return t.UTC()
			}
		}
		p.fail(name, "unparseable timestamp %q", x)
		return time.Time{}
	}
	ms, ok := toInt64(v)
	if !ok {
		p.fail(name, "expected a timestamp, got %T", v)
	}
	return time.UnixMilli(ms).UTC()
}

func (p *params) order(name string) truncation.Order {
	v, ok := p.next(name)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case truncation.Order:
		return x
	case string:
		o, err := truncation.ParseOrder(strings.ToUpper(x))
		if err != nil {
			p.fail(name, "%v", err)
		}
		return o
	}
	p.fail(name, "expected a truncation order, got %T", v)
	return 0
}

func (p *params) window() Window {
	start := p.time("startTime")
	end := p.time("endTime")
	return NewWindow(start, end)
}

func (p *params) truncation() Truncation {
	limit := p.int("truncationLimit")
	order := p.order("truncationOrder")
	return Truncation{TruncationLimit: limit, TruncationOrder: order}
}

func (p *params) accountAttrs() AccountAttrs {
	return AccountAttrs{
		Time:           p.time("time"),
		Comment:        p.str("comment"),
		AccountBlocked: p.bool("accountBlocked"),
		AccountType:    p.str("accountType"),
		Nickname:       p.str("nickname"),
		Phonenum:       p.str("phonenum"),
		Email:          p.str("email"),
		FreqLoginType:  p.str("freqLoginType"),
		LastLoginTime:  p.id("lastLoginTime"),
		AccountLevel:   p.str("accountLevel"),
	}
}

func (p *params) loanAttrs() LoanAttrs {
	return LoanAttrs{
		LoanAmount:   p.float("loanAmount"),
		Balance:      p.float("balance"),
		Time:         p.time("time"),
		Comment:      p.str("comment"),
		InterestRate: p.float("interestRate"),
		LoanOrgName:  p.str("loanOrgName"),
		LoanUsage:    p.str("loanUsage"),
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case float64:
		return int64(x), x == math.Trunc(x) && math.Abs(x) < 1<<53
	case json.Number:
		i, err := x.Int64()
		return i, err == nil
	}
	return 0, false
}

// New builds an operation of the given kind from its ordered parameter list. Wrong
// arity, types or values fail with an error matching ErrInvalidParameter.
func New(kind Kind, values ...any) (Operation, error) {
	p := &params{kind: kind, values: values}
	var op Operation

	switch kind {
	case KindComplexRead1:
		op = ComplexRead1{AccountID: p.id("accountId"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead2:
		op = ComplexRead2{PersonID: p.id("personId"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead3:
		op = ComplexRead3{SrcAccountID: p.id("srcAccountId"), DstAccountID: p.id("dstAccountId"), Window: p.window()}
	case KindComplexRead4:
		op = ComplexRead4{SrcAccountID: p.id("srcAccountId"), DstAccountID: p.id("dstAccountId"), Window: p.window()}
	case KindComplexRead5:
		op = ComplexRead5{PersonID: p.id("personId"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead6:
		op = ComplexRead6{AccountID: p.id("accountId"), Threshold1: p.float("threshold1"), Threshold2: p.float("threshold2"),
			Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead7:
		op = ComplexRead7{AccountID: p.id("accountId"), Threshold: p.float("threshold"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead8:
		op = ComplexRead8{LoanID: p.id("loanId"), Threshold: p.float("threshold"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead9:
		op = ComplexRead9{AccountID: p.id("accountId"), Threshold: p.float("threshold"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead10:
		op = ComplexRead10{PersonID1: p.id("personId1"), PersonID2: p.id("personId2"), Window: p.window()}
	case KindComplexRead11:
		op = ComplexRead11{PersonID: p.id("personId"), Window: p.window(), Truncation: p.truncation()}
	case KindComplexRead12:
		op = ComplexRead12{PersonID: p.id("personId"), Window: p.window(), Truncation: p.truncation()}

	case KindSimpleRead1:
		op = SimpleRead1{AccountID: p.id("accountId"), Window: p.window()}
	case KindSimpleRead2:
		op = SimpleRead2{AccountID: p.id("accountId"), Window: p.window()}
	case KindSimpleRead3:
		op = SimpleRead3{AccountID: p.id("accountId"), Threshold: p.float("threshold"), Window: p.window()}
	case KindSimpleRead4:
		op = SimpleRead4{AccountID: p.id("accountId"), Threshold: p.float("threshold"), Window: p.window()}
	case KindSimpleRead5:
		op = SimpleRead5{AccountID: p.id("accountId"), Threshold: p.float("threshold"), Window: p.window()}
	case KindSimpleRead6:
		op = SimpleRead6{AccountID: p.id("accountId"), Window: p.window()}

	case KindWrite1:
		op = Write1{PersonID: p.id("personId"), PersonName: p.str("personName"), IsBlocked: p.bool("isBlocked"),
			Gender: p.str("gender"), Birthday: p.str("birthday"), Country: p.str("country"), City: p.str("city")}
	case KindWrite2:
		op = Write2{CompanyID: p.id("companyId"), CompanyName: p.str("companyName"), IsBlocked: p.bool("isBlocked"),
			Country: p.str("country"), City: p.str("city"), Business: p.str("business"),
			Description: p.str("description"), URL: p.str("url")}
	case KindWrite3:
		op = Write3{MediumID: p.id("mediumId"), MediumType: p.str("mediumType"), IsBlocked: p.bool("isBlocked"),
			LastLoginTime: p.id("lastLoginTime"), RiskLevel: p.str("riskLevel")}
	case KindWrite4:
		op = Write4{PersonID: p.id("personId"), AccountID: p.id("accountId"), AccountAttrs: p.accountAttrs()}
	case KindWrite5:
		op = Write5{CompanyID: p.id("companyId"), AccountID: p.id("accountId"), AccountAttrs: p.accountAttrs()}
	case KindWrite6:
		op = Write6{PersonID: p.id("personId"), LoanID: p.id("loanId"), LoanAttrs: p.loanAttrs()}
	case KindWrite7:
		op = Write7{CompanyID: p.id("companyId"), LoanID: p.id("loanId"), LoanAttrs: p.loanAttrs()}
	case KindWrite8:
		op = Write8{PersonID: p.id("personId"), CompanyID: p.id("companyId"), Time: p.time("time"),
			Ratio: p.float("ratio"), Comment: p.str("comment")}
	case KindWrite9:
		op = Write9{CompanyID1: p.id("companyId1"), CompanyID2: p.id("companyId2"), Time: p.time("time"),
			Ratio: p.float("ratio"), Comment: p.str("comment")}
	case KindWrite10:
		op = Write10{PersonID1: p.id("personId1"), PersonID2: p.id("personId2"), Time: p.time("time"),
			Relation: p.str("relation"), Comment: p.str("comment")}
	case KindWrite11:
		op = Write11{CompanyID1: p.id("companyId1"), CompanyID2: p.id("companyId2"), Time: p.time("time"),
			Relation: p.str("relation"), Comment: p.str("comment")}
	case KindWrite12:
		op = Write12{AccountID1: p.id("accountId1"), AccountID2: p.id("accountId2"), Time: p.time("time"),
			Amount: p.float("amount"), OrderNumber: p.str("orderNumber"), Comment: p.str("comment"),
			PayType: p.str("payType"), GoodsType: p.str("goodsType")}
	case KindWrite13:
		op = Write13{AccountID1: p.id("accountId1"), AccountID2: p.id("accountId2"), Time: p.time("time"),
			Amount: p.float("amount"), OrderNumber: p.str("orderNumber"), Comment: p.str("comment"),
			Channel: p.str("channel")}
	case KindWrite14:
		op = Write14{AccountID: p.id("accountId"), LoanID: p.id("loanId"), Time: p.time("time"),
			Amount: p.float("amount"), Comment: p.str("comment")}
	case KindWrite15:
		op = Write15{LoanID: p.id("loanId"), AccountID: p.id("accountId"), Time: p.time("time"),
			Amount: p.float("amount"), Comment: p.str("comment")}
	case KindWrite16:
		op = Write16{MediumID: p.id("mediumId"), AccountID: p.id("accountId"), Time: p.time("time"),
			Location: p.str("location"), Comment: p.str("comment")}
	case KindWrite17:
		op = Write17{AccountID: p.id("accountId")}
	case KindWrite18:
		op = Write18{AccountID: p.id("accountId")}
	case KindWrite19:
		op = Write19{PersonID: p.id("personId")}

	case KindReadWrite1:
		op = ReadWrite1{SrcID: p.id("srcId"), DstID: p.id("dstId"), Time: p.time("time"),
			Amount: p.float("amount"), Window: p.window()}
	case KindReadWrite2:
		op = ReadWrite2{SrcID: p.id("srcId"), DstID: p.id("dstId"), Time: p.time("time"),
			Amount: p.float("amount"), AmountThreshold: p.float("amountThreshold"), Window: p.window(),
			RatioThreshold: p.float("ratioThreshold"), Truncation: p.truncation()}
	case KindReadWrite3:
		op = ReadWrite3{SrcID: p.id("srcId"), DstID: p.id("dstId"), Time: p.time("time"),
			Threshold: p.float("threshold"), Window: p.window(), Truncation: p.truncation()}

	default:
		return nil, &ParameterError{Kind: kind, Position: -1, Reason: "unknown operation kind"}
	}

	if p.err != nil {
		return nil, p.err
	}
	if p.pos != len(values) {
		return nil, &ParameterError{Kind: kind, Position: p.pos,
			Reason: fmt.Sprintf("expected %d parameters, got %d", p.pos, len(values))}
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return op, nil
}
