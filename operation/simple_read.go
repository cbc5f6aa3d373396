package operation

// Exact account lookup.
type SimpleRead1 struct {
	AccountID int64 `json:"accountId"`
	Window
}

// Transfer-out and transfer-in aggregates of an account.
type SimpleRead2 struct {
	AccountID int64 `json:"accountId"`
	Window
}

// Share of blocked accounts among the sources of large transfer-ins.
type SimpleRead3 struct {
	AccountID int64   `json:"accountId"`
	Threshold float64 `json:"threshold"`
	Window
}

// Large transfer-outs grouped by destination.
type SimpleRead4 struct {
	AccountID int64   `json:"accountId"`
	Threshold float64 `json:"threshold"`
	Window
}

// Large transfer-ins grouped by source.
type SimpleRead5 struct {
	AccountID int64   `json:"accountId"`
	Threshold float64 `json:"threshold"`
	Window
}

// Blocked accounts sharing a transfer source with the given account.
type SimpleRead6 struct {
	AccountID int64 `json:"accountId"`
	Window
}

func (SimpleRead1) Kind() Kind { return KindSimpleRead1 }
func (SimpleRead2) Kind() Kind { return KindSimpleRead2 }
func (SimpleRead3) Kind() Kind { return KindSimpleRead3 }
func (SimpleRead4) Kind() Kind { return KindSimpleRead4 }
func (SimpleRead5) Kind() Kind { return KindSimpleRead5 }
func (SimpleRead6) Kind() Kind { return KindSimpleRead6 }

func (SimpleRead1) sealed() {}
func (SimpleRead2) sealed() {}
func (SimpleRead3) sealed() {}
func (SimpleRead4) sealed() {}
func (SimpleRead5) sealed() {}
func (SimpleRead6) sealed() {}

func (o SimpleRead1) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.window(o.Window)
	return c.err
}

func (o SimpleRead2) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.window(o.Window)
	return c.err
}

func (o SimpleRead3) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	return c.err
}

func (o SimpleRead4) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	return c.err
}

func (o SimpleRead5) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	return c.err
}

func (o SimpleRead6) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.window(o.Window)
	return c.err
}
