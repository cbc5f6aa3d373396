package relational

import (
	"context"
	"strings"

	"finbench/driver"
	"finbench/operation"
)

func write1(ctx context.Context, op operation.Write1, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into person (id, name, is_blocked, gender, birthday, country, city)
		values (?, ?, ?, ?, ?, ?, ?)`,
		op.PersonID, op.PersonName, op.IsBlocked, op.Gender, op.Birthday, op.Country, op.City)
}

func write2(ctx context.Context, op operation.Write2, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into company (id, name, is_blocked, country, city, business, description, url)
		values (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.CompanyID, op.CompanyName, op.IsBlocked, op.Country, op.City, op.Business, op.Description, op.URL)
}

func write3(ctx context.Context, op operation.Write3, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into medium (id, medium_type, is_blocked, last_login_time, risk_level)
		values (?, ?, ?, ?, ?)`,
		op.MediumID, op.MediumType, op.IsBlocked, op.LastLoginTime, op.RiskLevel)
}

// Adds an account together with the edge from its owner
func addAccount(ctx context.Context, kind operation.Kind, s *Session, ownerKind string, ownerID, accountID int64, a operation.AccountAttrs) error {
	return s.inTx(ctx, func(st store) error {
		err := st.insert(ctx, kind, `
			insert into account (id, create_time, is_blocked, account_type, nickname, phonenum, email,
				freq_login_type, last_login_time, account_level)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			accountID, millis(a.Time), a.AccountBlocked, a.AccountType, a.Nickname, a.Phonenum, a.Email,
			a.FreqLoginType, a.LastLoginTime, a.AccountLevel)
		if err != nil {
			return err
		}
		return st.insert(ctx, kind, `
			insert into own (owner_kind, owner_id, account_id, create_time, comment)
			values (?, ?, ?, ?, ?)`,
			ownerKind, ownerID, accountID, millis(a.Time), a.Comment)
	})
}

func write4(ctx context.Context, op operation.Write4, s *Session, r driver.ResultReporter) error {
	return addAccount(ctx, op.Kind(), s, "person", op.PersonID, op.AccountID, op.AccountAttrs)
}

func write5(ctx context.Context, op operation.Write5, s *Session, r driver.ResultReporter) error {
	return addAccount(ctx, op.Kind(), s, "company", op.CompanyID, op.AccountID, op.AccountAttrs)
}

// Adds a loan together with the apply edge from its applicant
func addLoan(ctx context.Context, kind operation.Kind, s *Session, ownerKind string, ownerID, loanID int64, l operation.LoanAttrs) error {
	return s.inTx(ctx, func(st store) error {
		err := st.insert(ctx, kind, `
			insert into loan (id, loan_amount, balance, create_time, interest_rate, org_name, loan_usage)
			values (?, ?, ?, ?, ?, ?, ?)`,
			loanID, l.LoanAmount, l.Balance, millis(l.Time), l.InterestRate, l.LoanOrgName, l.LoanUsage)
		if err != nil {
			return err
		}
		return st.insert(ctx, kind, `
			insert into apply (owner_kind, owner_id, loan_id, create_time, org_name, comment)
			values (?, ?, ?, ?, ?, ?)`,
			ownerKind, ownerID, loanID, millis(l.Time), l.LoanOrgName, l.Comment)
	})
}

func write6(ctx context.Context, op operation.Write6, s *Session, r driver.ResultReporter) error {
	return addLoan(ctx, op.Kind(), s, "person", op.PersonID, op.LoanID, op.LoanAttrs)
}

func write7(ctx context.Context, op operation.Write7, s *Session, r driver.ResultReporter) error {
	return addLoan(ctx, op.Kind(), s, "company", op.CompanyID, op.LoanID, op.LoanAttrs)
}

const insertInvest = `
	insert into invest (investor_kind, investor_id, company_id, create_time, ratio, comment)
	values (?, ?, ?, ?, ?, ?)`

func write8(ctx context.Context, op operation.Write8, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), insertInvest, "person", op.PersonID, op.CompanyID, millis(op.Time), op.Ratio, op.Comment)
}

func write9(ctx context.Context, op operation.Write9, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), insertInvest, "company", op.CompanyID1, op.CompanyID2, millis(op.Time), op.Ratio, op.Comment)
}

const insertGuarantee = `
	insert into guarantee (guarantor_kind, src_id, dst_id, create_time, relation, comment)
	values (?, ?, ?, ?, ?, ?)`

func write10(ctx context.Context, op operation.Write10, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), insertGuarantee, "person", op.PersonID1, op.PersonID2, millis(op.Time), op.Relation, op.Comment)
}

func write11(ctx context.Context, op operation.Write11, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), insertGuarantee, "company", op.CompanyID1, op.CompanyID2, millis(op.Time), op.Relation, op.Comment)
}

const insertTransfer = `
	insert into transfer (src_id, dst_id, create_time, amount, order_number, comment, pay_type, goods_type)
	values (?, ?, ?, ?, ?, ?, ?, ?)`

func write12(ctx context.Context, op operation.Write12, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), insertTransfer,
		op.AccountID1, op.AccountID2, millis(op.Time), op.Amount, op.OrderNumber, op.Comment, op.PayType, op.GoodsType)
}

func write13(ctx context.Context, op operation.Write13, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into withdraw (src_id, dst_id, create_time, amount, order_number, comment, channel)
		values (?, ?, ?, ?, ?, ?, ?)`,
		op.AccountID1, op.AccountID2, millis(op.Time), op.Amount, op.OrderNumber, op.Comment, op.Channel)
}

func write14(ctx context.Context, op operation.Write14, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into repay (account_id, loan_id, create_time, amount, comment)
		values (?, ?, ?, ?, ?)`,
		op.AccountID, op.LoanID, millis(op.Time), op.Amount, op.Comment)
}

func write15(ctx context.Context, op operation.Write15, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into deposit (loan_id, account_id, create_time, amount, comment)
		values (?, ?, ?, ?, ?)`,
		op.LoanID, op.AccountID, millis(op.Time), op.Amount, op.Comment)
}

func write16(ctx context.Context, op operation.Write16, s *Session, r driver.ResultReporter) error {
	return s.store().insert(ctx, op.Kind(), `
		insert into sign_in (medium_id, account_id, create_time, location, comment)
		values (?, ?, ?, ?, ?)`,
		op.MediumID, op.AccountID, millis(op.Time), op.Location, op.Comment)
}

// Statements removing an account and every edge touching it
var deleteAccount = []string{
	"delete from own where account_id = ?",
	"delete from transfer where src_id = ? or dst_id = ?",
	"delete from withdraw where src_id = ? or dst_id = ?",
	"delete from repay where account_id = ?",
	"delete from deposit where account_id = ?",
	"delete from sign_in where account_id = ?",
	"delete from account where id = ?",
}

func write17(ctx context.Context, op operation.Write17, s *Session, r driver.ResultReporter) error {
	return s.inTx(ctx, func(st store) error {
		for _, stmt := range deleteAccount {
			args := []any{}
			for range strings.Count(stmt, "?") {
				args = append(args, op.AccountID)
			}
			if _, err := st.exec(ctx, stmt, args...); err != nil {
				return err
			}
		}
		return nil
	})
}

func write18(ctx context.Context, op operation.Write18, s *Session, r driver.ResultReporter) error {
	return s.store().block(ctx, "account", op.AccountID)
}

func write19(ctx context.Context, op operation.Write19, s *Session, r driver.ResultReporter) error {
	return s.store().block(ctx, "person", op.PersonID)
}
