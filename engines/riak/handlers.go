package riak_engine

import (
	"context"
	"errors"
	"time"

	"finbench/driver"
	"finbench/operation"
)

func handle[O operation.Operation](fn func(ctx context.Context, op O, s *Session, r driver.ResultReporter) error) driver.HandlerFactory {
	return driver.Handle(func(ctx context.Context, op O, s *Session, r driver.ResultReporter) error {
		err := fn(ctx, op, s, r)
		if errors.Is(err, driver.ErrUseAfterClose) {
			return err
		}
		return driver.NewQueryError(op.Kind(), err)
	})
}

// Handlers returns the registry of the operations the key-value layout can answer.
func Handlers() driver.Registry {
	return driver.Registry{
		operation.KindSimpleRead1: handle(simpleRead1),

		operation.KindWrite1:  handle(write1),
		operation.KindWrite2:  handle(write2),
		operation.KindWrite3:  handle(write3),
		operation.KindWrite4:  handle(write4),
		operation.KindWrite5:  handle(write5),
		operation.KindWrite17: handle(write17),
		operation.KindWrite18: handle(write18),
		operation.KindWrite19: handle(write19),
	}
}

func personVertex(op operation.Write1) *vertex {
	return &vertex{ID: op.PersonID, Name: op.PersonName, IsBlocked: op.IsBlocked,
		Gender: op.Gender, Birthday: op.Birthday, Country: op.Country, City: op.City}
}

func companyVertex(op operation.Write2) *vertex {
	return &vertex{ID: op.CompanyID, Name: op.CompanyName, IsBlocked: op.IsBlocked, Country: op.Country,
		City: op.City, Business: op.Business, Description: op.Description, URL: op.URL}
}

func mediumVertex(op operation.Write3) *vertex {
	return &vertex{ID: op.MediumID, MediumType: op.MediumType, IsBlocked: op.IsBlocked,
		LastLoginTime: op.LastLoginTime, RiskLevel: op.RiskLevel}
}

func accountVertex(ownerKind string, ownerID, accountID int64, a operation.AccountAttrs) *vertex {
	return &vertex{
		ID:            accountID,
		IsBlocked:     a.AccountBlocked,
		CreateTime:    a.Time.UnixMilli(),
		AccountType:   a.AccountType,
		Nickname:      a.Nickname,
		Phonenum:      a.Phonenum,
		Email:         a.Email,
		FreqLoginType: a.FreqLoginType,
		LastLoginTime: a.LastLoginTime,
		AccountLevel:  a.AccountLevel,
		OwnerKind:     ownerKind,
		OwnerID:       ownerID,
		Comment:       a.Comment,
	}
}

func write1(ctx context.Context, op operation.Write1, s *Session, r driver.ResultReporter) error {
	return s.insert(ctx, op.Kind(), "person", personVertex(op))
}

func write2(ctx context.Context, op operation.Write2, s *Session, r driver.ResultReporter) error {
	return s.insert(ctx, op.Kind(), "company", companyVertex(op))
}

func write3(ctx context.Context, op operation.Write3, s *Session, r driver.ResultReporter) error {
	return s.insert(ctx, op.Kind(), "medium", mediumVertex(op))
}

func write4(ctx context.Context, op operation.Write4, s *Session, r driver.ResultReporter) error {
	return s.insert(ctx, op.Kind(), "account", accountVertex("person", op.PersonID, op.AccountID, op.AccountAttrs))
}

func write5(ctx context.Context, op operation.Write5, s *Session, r driver.ResultReporter) error {
	return s.insert(ctx, op.Kind(), "account", accountVertex("company", op.CompanyID, op.AccountID, op.AccountAttrs))
}

func write17(ctx context.Context, op operation.Write17, s *Session, r driver.ResultReporter) error {
	return s.delete(ctx, "account", op.AccountID)
}

func write18(ctx context.Context, op operation.Write18, s *Session, r driver.ResultReporter) error {
	return s.block(ctx, "account", op.AccountID)
}

func write19(ctx context.Context, op operation.Write19, s *Session, r driver.ResultReporter) error {
	return s.block(ctx, "person", op.PersonID)
}

func simpleRead1Result(v *vertex) operation.SimpleRead1Result {
	return operation.SimpleRead1Result{
		CreateTime:  time.UnixMilli(v.CreateTime).UTC(),
		IsBlocked:   v.IsBlocked,
		AccountType: v.AccountType,
	}
}

func simpleRead1(ctx context.Context, op operation.SimpleRead1, s *Session, r driver.ResultReporter) error {
	v, _, err := s.get(ctx, "account", op.AccountID)
	if err != nil || v == nil {
		return err
	}
	r.Report(simpleRead1Result(v))
	return nil
}
