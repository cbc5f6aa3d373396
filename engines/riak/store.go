package riak_engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"finbench/driver"
	"finbench/operation"

	"github.com/basho/riak-go-client"
)

// vertex is the JSON document stored per vertex. Only the fields of its table are set.
type vertex struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	IsBlocked bool   `json:"isBlocked"`

	Gender      string `json:"gender,omitempty"`
	Birthday    string `json:"birthday,omitempty"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	Business    string `json:"business,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`

	MediumType    string `json:"mediumType,omitempty"`
	LastLoginTime int64  `json:"lastLoginTime,omitempty"`
	RiskLevel     string `json:"riskLevel,omitempty"`

	CreateTime    int64  `json:"createTime,omitempty"`
	AccountType   string `json:"accountType,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Phonenum      string `json:"phonenum,omitempty"`
	Email         string `json:"email,omitempty"`
	FreqLoginType string `json:"freqLoginType,omitempty"`
	AccountLevel  string `json:"accountLevel,omitempty"`
	OwnerKind     string `json:"ownerKind,omitempty"`
	OwnerID       int64  `json:"ownerId,omitempty"`
	Comment       string `json:"comment,omitempty"`
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Fails once the engine is closed or ctx is done
func (s *Session) usable(ctx context.Context) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: riak engine is closed", driver.ErrUseAfterClose)
	}
	return ctx.Err()
}

// Returns the stored object of a vertex, or nil when it does not exist
func (s *Session) fetch(ctx context.Context, table string, id int64) (*riak.Object, error) {
	if err := s.usable(ctx); err != nil {
		return nil, err
	}
	cmd, err := riak.NewFetchValueCommandBuilder().
		WithBucketType(s.buckets.bucketType).
		WithBucket(s.buckets.name(table)).
		WithKey(key(id)).
		Build()
	if err != nil {
		return nil, err
	}
	if err := s.client.Execute(cmd); err != nil {
		return nil, err
	}

	resp := cmd.(*riak.FetchValueCommand).Response
	if resp == nil || resp.IsNotFound || len(resp.Values) == 0 {
		return nil, nil
	}
	return resp.Values[0], nil
}

func (s *Session) get(ctx context.Context, table string, id int64) (*vertex, *riak.Object, error) {
	obj, err := s.fetch(ctx, table, id)
	if err != nil || obj == nil {
		return nil, nil, err
	}
	v := &vertex{}
	if err := json.Unmarshal(obj.Value, v); err != nil {
		return nil, nil, err
	}
	return v, obj, nil
}

// Stores v, reusing the vector clock of prev when the vertex is being updated
func (s *Session) put(ctx context.Context, table string, v *vertex, prev *riak.Object) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	obj := &riak.Object{
		ContentType:     "application/json",
		Charset:         "utf-8",
		ContentEncoding: "utf-8",
		Value:           data,
	}
	if prev != nil {
		obj.VClock = prev.VClock
	}

	cmd, err := riak.NewStoreValueCommandBuilder().
		WithBucketType(s.buckets.bucketType).
		WithBucket(s.buckets.name(table)).
		WithKey(key(v.ID)).
		WithContent(obj).
		Build()
	if err != nil {
		return err
	}
	return s.client.Execute(cmd)
}

// Stores a new vertex, failing when the key is taken
func (s *Session) insert(ctx context.Context, kind operation.Kind, table string, v *vertex) error {
	existing, err := s.fetch(ctx, table, v.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return driver.Constraint(kind, "%s %d already exists", table, v.ID)
	}
	return s.put(ctx, table, v, nil)
}

func (s *Session) block(ctx context.Context, table string, id int64) error {
	v, obj, err := s.get(ctx, table, id)
	if err != nil || v == nil || v.IsBlocked {
		return err
	}
	v.IsBlocked = true
	return s.put(ctx, table, v, obj)
}

func (s *Session) delete(ctx context.Context, table string, id int64) error {
	if err := s.usable(ctx); err != nil {
		return err
	}
	cmd, err := riak.NewDeleteValueCommandBuilder().
		WithBucketType(s.buckets.bucketType).
		WithBucket(s.buckets.name(table)).
		WithKey(key(id)).
		Build()
	if err != nil {
		return err
	}
	return s.client.Execute(cmd)
}
