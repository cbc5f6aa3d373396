package riak_engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"finbench/driver"

	"github.com/basho/riak-go-client"
	zlog "github.com/rs/zerolog/log"
)

// Engine keeps vertices as JSON values in riak buckets. It serves the vertex writes
// and lookups of the workload; edges and traversals are left to the relational engine.
//
// Properties:
//
//	riak.addresses   comma separated host:port list, required
//	riak.bucketType  bucket type holding the buckets (default "default")
//	riak.prefix      prefix of the bucket names (default "finbench")
type Engine struct {
	mu      sync.RWMutex
	client  *riak.Client
	buckets buckets
	closed  *atomic.Bool
}

// buckets resolves the riak bucket of each vertex table
type buckets struct {
	bucketType string
	prefix     string
}

func (b buckets) name(table string) string {
	return b.prefix + "-" + table
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	return "riak"
}

// Returns the addresses and buckets configured by props
func parseProperties(props driver.Properties) ([]string, buckets, error) {
	addresses := props.List("riak.addresses")
	if len(addresses) == 0 {
		return nil, buckets{}, fmt.Errorf("%w: missing property %q", driver.ErrConfig, "riak.addresses")
	}
	for _, addr := range addresses {
		if !strings.Contains(addr, ":") {
			return nil, buckets{}, fmt.Errorf("%w: riak address %q has no port", driver.ErrConfig, addr)
		}
	}
	b := buckets{
		bucketType: props.String("riak.bucketType", "default"),
		prefix:     props.String("riak.prefix", "finbench"),
	}
	if b.bucketType == "" || b.prefix == "" {
		return nil, buckets{}, fmt.Errorf("%w: riak bucket type and prefix must not be empty", driver.ErrConfig)
	}
	return addresses, b, nil
}

func (e *Engine) Connect(ctx context.Context, props driver.Properties) error {
	addresses, b, err := parseProperties(props)
	if err != nil {
		return err
	}

	client, err := riak.NewClient(&riak.NewClientOptions{RemoteAddresses: addresses})
	if err != nil {
		return fmt.Errorf("%w: %v", driver.ErrConnection, err)
	}
	ping := &riak.PingCommand{}
	if err := client.Execute(ping); err != nil {
		return fmt.Errorf("%w: ping: %v", driver.ErrConnection, errors.Join(err, client.Stop()))
	}

	e.mu.Lock()
	e.client = client
	e.buckets = b
	e.closed = new(atomic.Bool)
	e.mu.Unlock()

	zlog.Info().Str("engine", "riak").Strs("addresses", addresses).Str("bucketType", b.bucketType).Msg("Connected")
	return nil
}

// Session shares the engine's client; riak pools connections per node itself.
type Session struct {
	client  *riak.Client
	buckets buckets
	closed  *atomic.Bool
}

func (s *Session) Close() error {
	return nil
}

func (e *Engine) Session(ctx context.Context) (driver.ConnectionState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.client == nil {
		return nil, fmt.Errorf("%w: engine is not connected", driver.ErrConnection)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Session{client: e.client, buckets: e.buckets, closed: e.closed}, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed != nil {
		e.closed.Store(true)
	}
	if e.client == nil {
		return nil
	}
	err := e.client.Stop()
	e.client = nil
	return err
}
