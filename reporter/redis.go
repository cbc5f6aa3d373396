package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finbench/operation"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// Redis appends each entry to the run's result list and counts outcomes per kind.
type Redis struct {
	Client   *redis.Client
	run      string
	failures failures
}

func NewRedis(ctx context.Context, run string, opt *redis.Options) (*Redis, error) {
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{Client: client, run: run}, nil
}

func ResultsKey(run string) string {
	return fmt.Sprintf("finbench:%s:results", run)
}

func CountersKey(run string) string {
	return fmt.Sprintf("finbench:%s:counters", run)
}

func (s *Redis) Reporter(op operation.Operation) *Reporter {
	return newReporter(s.run, op, s.write)
}

func (s *Redis) write(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return s.failures.add(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, ResultsKey(s.run), data)
		pipe.HIncrBy(ctx, CountersKey(s.run), entry.Kind+":"+entry.State, 1)
		return nil
	})
	return s.failures.add(err)
}

// Returns the entries stored for the run, in publish order
func (s *Redis) Entries(ctx context.Context) ([]Entry, error) {
	values, err := s.Client.LRange(ctx, ResultsKey(s.run), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(values))
	for _, v := range values {
		var entry Entry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Redis) Close() error {
	if err := s.Client.Close(); err != nil {
		return err
	}
	return s.failures.err()
}
