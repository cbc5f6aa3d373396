package operation

import "time"

// Adds a transfer unless an endpoint is blocked; blocks both accounts when the
// transfer closes a cycle inside the window.
type ReadWrite1 struct {
	SrcID  int64     `json:"srcId"`
	DstID  int64     `json:"dstId"`
	Time   time.Time `json:"time"`
	Amount float64   `json:"amount"`
	Window
}

// Adds a transfer unless an endpoint is blocked; blocks both accounts when either
// endpoint's in/out ratio of large transfers exceeds RatioThreshold.
type ReadWrite2 struct {
	SrcID           int64     `json:"srcId"`
	DstID           int64     `json:"dstId"`
	Time            time.Time `json:"time"`
	Amount          float64   `json:"amount"`
	AmountThreshold float64   `json:"amountThreshold"`
	Window
	RatioThreshold float64 `json:"ratioThreshold"`
	Truncation
}

// Adds a person guarantee unless an endpoint is blocked; blocks both persons when the
// loans along the guarantee chain exceed Threshold.
type ReadWrite3 struct {
	SrcID     int64     `json:"srcId"`
	DstID     int64     `json:"dstId"`
	Time      time.Time `json:"time"`
	Threshold float64   `json:"threshold"`
	Window
	Truncation
}

func (ReadWrite1) Kind() Kind { return KindReadWrite1 }
func (ReadWrite2) Kind() Kind { return KindReadWrite2 }
func (ReadWrite3) Kind() Kind { return KindReadWrite3 }

func (ReadWrite1) sealed() {}
func (ReadWrite2) sealed() {}
func (ReadWrite3) sealed() {}

func (o ReadWrite1) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("srcId", o.SrcID)
	c.id("dstId", o.DstID)
	c.amount("amount", o.Amount)
	c.window(o.Window)
	return c.err
}

func (o ReadWrite2) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("srcId", o.SrcID)
	c.id("dstId", o.DstID)
	c.amount("amount", o.Amount)
	c.amount("amountThreshold", o.AmountThreshold)
	c.amount("ratioThreshold", o.RatioThreshold)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ReadWrite3) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("srcId", o.SrcID)
	c.id("dstId", o.DstID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}
