package operation

import "time"

// Adds a person.
type Write1 struct {
	PersonID   int64  `json:"personId"`
	PersonName string `json:"personName"`
	IsBlocked  bool   `json:"isBlocked"`
	Gender     string `json:"gender"`
	Birthday   string `json:"birthday"`
	Country    string `json:"country"`
	City       string `json:"city"`
}

// Adds a company.
type Write2 struct {
	CompanyID   int64  `json:"companyId"`
	CompanyName string `json:"companyName"`
	IsBlocked   bool   `json:"isBlocked"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Business    string `json:"business"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Adds a medium.
type Write3 struct {
	MediumID      int64  `json:"mediumId"`
	MediumType    string `json:"mediumType"`
	IsBlocked     bool   `json:"isBlocked"`
	LastLoginTime int64  `json:"lastLoginTime"`
	RiskLevel     string `json:"riskLevel"`
}

// AccountAttrs are the attributes of an account created together with its owner edge.
type AccountAttrs struct {
	Time           time.Time `json:"time"`
	Comment        string    `json:"comment"`
	AccountBlocked bool      `json:"accountBlocked"`
	AccountType    string    `json:"accountType"`
	Nickname       string    `json:"nickname"`
	Phonenum       string    `json:"phonenum"`
	Email          string    `json:"email"`
	FreqLoginType  string    `json:"freqLoginType"`
	LastLoginTime  int64     `json:"lastLoginTime"`
	AccountLevel   string    `json:"accountLevel"`
}

// Adds an account owned by a person.
type Write4 struct {
	PersonID  int64 `json:"personId"`
	AccountID int64 `json:"accountId"`
	AccountAttrs
}

// Adds an account owned by a company.
type Write5 struct {
	CompanyID int64 `json:"companyId"`
	AccountID int64 `json:"accountId"`
	AccountAttrs
}

// LoanAttrs are the attributes of a loan created together with its apply edge.
type LoanAttrs struct {
	LoanAmount   float64   `json:"loanAmount"`
	Balance      float64   `json:"balance"`
	Time         time.Time `json:"time"`
	Comment      string    `json:"comment"`
	InterestRate float64   `json:"interestRate"`
	LoanOrgName  string    `json:"loanOrgName"`
	LoanUsage    string    `json:"loanUsage"`
}

// Adds a loan applied for by a person.
type Write6 struct {
	PersonID int64 `json:"personId"`
	LoanID   int64 `json:"loanId"`
	LoanAttrs
}

// Adds a loan applied for by a company.
type Write7 struct {
	CompanyID int64 `json:"companyId"`
	LoanID    int64 `json:"loanId"`
	LoanAttrs
}

// Adds a person's investment in a company.
type Write8 struct {
	PersonID  int64     `json:"personId"`
	CompanyID int64     `json:"companyId"`
	Time      time.Time `json:"time"`
	Ratio     float64   `json:"ratio"`
	Comment   string    `json:"comment"`
}

// Adds a company's investment in another company.
type Write9 struct {
	CompanyID1 int64     `json:"companyId1"`
	CompanyID2 int64     `json:"companyId2"`
	Time       time.Time `json:"time"`
	Ratio      float64   `json:"ratio"`
	Comment    string    `json:"comment"`
}

// Adds a guarantee between persons.
type Write10 struct {
	PersonID1 int64     `json:"personId1"`
	PersonID2 int64     `json:"personId2"`
	Time      time.Time `json:"time"`
	Relation  string    `json:"relation"`
	Comment   string    `json:"comment"`
}

// Adds a guarantee between companies.
type Write11 struct {
	CompanyID1 int64     `json:"companyId1"`
	CompanyID2 int64     `json:"companyId2"`
	Time       time.Time `json:"time"`
	Relation   string    `json:"relation"`
	Comment    string    `json:"comment"`
}

// Adds a transfer between accounts.
type Write12 struct {
	AccountID1  int64     `json:"accountId1"`
	AccountID2  int64     `json:"accountId2"`
	Time        time.Time `json:"time"`
	Amount      float64   `json:"amount"`
	OrderNumber string    `json:"orderNumber"`
	Comment     string    `json:"comment"`
	PayType     string    `json:"payType"`
	GoodsType   string    `json:"goodsType"`
}

// Adds a withdrawal between accounts.
type Write13 struct {
	AccountID1  int64     `json:"accountId1"`
	AccountID2  int64     `json:"accountId2"`
	Time        time.Time `json:"time"`
	Amount      float64   `json:"amount"`
	OrderNumber string    `json:"orderNumber"`
	Comment     string    `json:"comment"`
	Channel     string    `json:"channel"`
}

// Adds an account's repayment of a loan.
type Write14 struct {
	AccountID int64     `json:"accountId"`
	LoanID    int64     `json:"loanId"`
	Time      time.Time `json:"time"`
	Amount    float64   `json:"amount"`
	Comment   string    `json:"comment"`
}

// Adds a loan's deposit into an account.
type Write15 struct {
	LoanID    int64     `json:"loanId"`
	AccountID int64     `json:"accountId"`
	Time      time.Time `json:"time"`
	Amount    float64   `json:"amount"`
	Comment   string    `json:"comment"`
}

// Adds a medium sign-in to an account.
type Write16 struct {
	MediumID  int64     `json:"mediumId"`
	AccountID int64     `json:"accountId"`
	Time      time.Time `json:"time"`
	Location  string    `json:"location"`
	Comment   string    `json:"comment"`
}

// Removes an account with all its edges.
type Write17 struct {
	AccountID int64 `json:"accountId"`
}

// Blocks an account.
type Write18 struct {
	AccountID int64 `json:"accountId"`
}

// Blocks a person.
type Write19 struct {
	PersonID int64 `json:"personId"`
}

func (Write1) Kind() Kind  { return KindWrite1 }
func (Write2) Kind() Kind  { return KindWrite2 }
func (Write3) Kind() Kind  { return KindWrite3 }
func (Write4) Kind() Kind  { return KindWrite4 }
func (Write5) Kind() Kind  { return KindWrite5 }
func (Write6) Kind() Kind  { return KindWrite6 }
func (Write7) Kind() Kind  { return KindWrite7 }
func (Write8) Kind() Kind  { return KindWrite8 }
func (Write9) Kind() Kind  { return KindWrite9 }
func (Write10) Kind() Kind { return KindWrite10 }
func (Write11) Kind() Kind { return KindWrite11 }
func (Write12) Kind() Kind { return KindWrite12 }
func (Write13) Kind() Kind { return KindWrite13 }
func (Write14) Kind() Kind { return KindWrite14 }
func (Write15) Kind() Kind { return KindWrite15 }
func (Write16) Kind() Kind { return KindWrite16 }
func (Write17) Kind() Kind { return KindWrite17 }
func (Write18) Kind() Kind { return KindWrite18 }
func (Write19) Kind() Kind { return KindWrite19 }

func (Write1) sealed()  {}
func (Write2) sealed()  {}
func (Write3) sealed()  {}
func (Write4) sealed()  {}
func (Write5) sealed()  {}
func (Write6) sealed()  {}
func (Write7) sealed()  {}
func (Write8) sealed()  {}
func (Write9) sealed()  {}
func (Write10) sealed() {}
func (Write11) sealed() {}
func (Write12) sealed() {}
func (Write13) sealed() {}
func (Write14) sealed() {}
func (Write15) sealed() {}
func (Write16) sealed() {}
func (Write17) sealed() {}
func (Write18) sealed() {}
func (Write19) sealed() {}

func (o Write1) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	return c.err
}

func (o Write2) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("companyId", o.CompanyID)
	return c.err
}

func (o Write3) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("mediumId", o.MediumID)
	return c.err
}

func (o Write4) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.id("accountId", o.AccountID)
	return c.err
}

func (o Write5) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("companyId", o.CompanyID)
	c.id("accountId", o.AccountID)
	return c.err
}

func (o Write6) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.id("loanId", o.LoanID)
	c.amount("loanAmount", o.LoanAmount)
	c.amount("balance", o.Balance)
	c.amount("interestRate", o.InterestRate)
	return c.err
}

func (o Write7) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("companyId", o.CompanyID)
	c.id("loanId", o.LoanID)
	c.amount("loanAmount", o.LoanAmount)
	c.amount("balance", o.Balance)
	c.amount("interestRate", o.InterestRate)
	return c.err
}

func (o Write8) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	c.id("companyId", o.CompanyID)
	c.amount("ratio", o.Ratio)
	return c.err
}

func (o Write9) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("companyId1", o.CompanyID1)
	c.id("companyId2", o.CompanyID2)
	c.amount("ratio", o.Ratio)
	return c.err
}

func (o Write10) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId1", o.PersonID1)
	c.id("personId2", o.PersonID2)
	return c.err
}

func (o Write11) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("companyId1", o.CompanyID1)
	c.id("companyId2", o.CompanyID2)
	return c.err
}

func (o Write12) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId1", o.AccountID1)
	c.id("accountId2", o.AccountID2)
	c.amount("amount", o.Amount)
	return c.err
}

func (o Write13) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId1", o.AccountID1)
	c.id("accountId2", o.AccountID2)
	c.amount("amount", o.Amount)
	return c.err
}

func (o Write14) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	c.id("loanId", o.LoanID)
	c.amount("amount", o.Amount)
	return c.err
}

func (o Write15) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("loanId", o.LoanID)
	c.id("accountId", o.AccountID)
	c.amount("amount", o.Amount)
	return c.err
}

func (o Write16) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("mediumId", o.MediumID)
	c.id("accountId", o.AccountID)
	return c.err
}

func (o Write17) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	return c.err
}

func (o Write18) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("accountId", o.AccountID)
	return c.err
}

func (o Write19) Validate() error {
	c := checker{kind: o.Kind()}
	c.id("personId", o.PersonID)
	return c.err
}
