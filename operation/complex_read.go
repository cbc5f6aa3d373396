package operation

// Accounts reachable by in-order fund transfers that signed in with a blocked medium.
type ComplexRead1 struct {
	AccountID int64 `json:"accountId"`
	Window
	Truncation
}

// Loan deposits reaching a person's accounts through fund transfer chains.
type ComplexRead2 struct {
	PersonID int64 `json:"personId"`
	Window
	Truncation
}

// Shortest transfer path between two accounts.
type ComplexRead3 struct {
	SrcAccountID int64 `json:"srcAccountId"`
	DstAccountID int64 `json:"dstAccountId"`
	Window
}

// Transfer triangles closing over a direct src->dst transfer.
type ComplexRead4 struct {
	SrcAccountID int64 `json:"srcAccountId"`
	DstAccountID int64 `json:"dstAccountId"`
	Window
}

// Transfer trace paths starting at a person's accounts.
type ComplexRead5 struct {
	PersonID int64 `json:"personId"`
	Window
	Truncation
}

// Mid accounts receiving transfers and withdrawing into the given account.
type ComplexRead6 struct {
	AccountID  int64   `json:"accountId"`
	Threshold1 float64 `json:"threshold1"`
	Threshold2 float64 `json:"threshold2"`
	Window
	Truncation
}

// Fund in/out ratio of an account.
type ComplexRead7 struct {
	AccountID int64   `json:"accountId"`
	Threshold float64 `json:"threshold"`
	Window
	Truncation
}

// Fund flow from a loan through deposits and transfers.
type ComplexRead8 struct {
	LoanID    int64   `json:"loanId"`
	Threshold float64 `json:"threshold"`
	Window
	Truncation
}

// Repay, deposit and transfer ratios around an account.
type ComplexRead9 struct {
	AccountID int64   `json:"accountId"`
	Threshold float64 `json:"threshold"`
	Window
	Truncation
}

// Jaccard similarity of the companies two persons invested in.
type ComplexRead10 struct {
	PersonID1 int64 `json:"personId1"`
	PersonID2 int64 `json:"personId2"`
	Window
}

// Loans applied for along a person's guarantee chain.
type ComplexRead11 struct {
	PersonID int64 `json:"personId"`
	Window
	Truncation
}

// Transfers from a person's accounts to company accounts.
type ComplexRead12 struct {
	PersonID int64 `json:"personId"`
	Window
	Truncation
}

func (ComplexRead1) Kind() Kind  { return KindComplexRead1 }
func (ComplexRead2) Kind() Kind  { return KindComplexRead2 }
func (ComplexRead3) Kind() Kind  { return KindComplexRead3 }
func (ComplexRead4) Kind() Kind  { return KindComplexRead4 }
func (ComplexRead5) Kind() Kind  { return KindComplexRead5 }
func (ComplexRead6) Kind() Kind  { return KindComplexRead6 }
func (ComplexRead7) Kind() Kind  { return KindComplexRead7 }
func (ComplexRead8) Kind() Kind  { return KindComplexRead8 }
func (ComplexRead9) Kind() Kind  { return KindComplexRead9 }
func (ComplexRead10) Kind() Kind { return KindComplexRead10 }
func (ComplexRead11) Kind() Kind { return KindComplexRead11 }
func (ComplexRead12) Kind() Kind { return KindComplexRead12 }

func (ComplexRead1) sealed()  {}
func (ComplexRead2) sealed()  {}
func (ComplexRead3) sealed()  {}
func (ComplexRead4) sealed()  {}
func (ComplexRead5) sealed()  {}
func (ComplexRead6) sealed()  {}
func (ComplexRead7) sealed()  {}
func (ComplexRead8) sealed()  {}
func (ComplexRead9) sealed()  {}
func (ComplexRead10) sealed() {}
func (ComplexRead11) sealed() {}
func (ComplexRead12) sealed() {}

func (o ComplexRead1) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead2) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead3) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("srcAccountId", o.SrcAccountID)
	c.id("dstAccountId", o.DstAccountID)
	c.window(o.Window)
	return c.err
}

func (o ComplexRead4) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("srcAccountId", o.SrcAccountID)
	c.id("dstAccountId", o.DstAccountID)
	c.window(o.Window)
	return c.err
}

func (o ComplexRead5) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead6) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.amount("threshold1", o.Threshold1)
	c.amount("threshold2", o.Threshold2)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead7) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead8) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("loanId", o.LoanID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead9) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.amount("threshold", o.Threshold)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead10) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId1", o.PersonID1)
	c.id("personId2", o.PersonID2)
	c.window(o.Window)
	return c.err
}

func (o ComplexRead11) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}

func (o ComplexRead12) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.window(o.Window)
	c.truncation(o.Truncation)
	return c.err
}
