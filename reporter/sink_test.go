package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finbench/driver"
	"finbench/operation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	jan1 = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan2 = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
)

func publishSample(sink Sink) {
	read := sink.Reporter(operation.SimpleRead6{AccountID: 7, Window: operation.NewWindow(jan1, jan2)})
	read.Report(operation.SimpleRead6Result{DstID: 1})
	read.Report(operation.SimpleRead6Result{DstID: 2})
	read.Complete()

	write := sink.Reporter(operation.Write17{AccountID: 7})
	write.Fail(errors.New("account 7 not found"))
	write.Fail(errors.New("ignored"))
}

func TestDiscard(t *testing.T) {
	r := Discard{Run: "test"}.Reporter(operation.Write18{AccountID: 1})
	r.Complete()
	if r.State() != driver.Completed {
		t.Errorf("state = %s, want completed", r.State())
	}
	entry, err := r.Entry()
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if entry.Kind != "Write18" || len(entry.Records) != 0 || entry.Run != "test" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl.zst")
	sink, err := Open(context.Background(), "run-1", Config{Sink: "file", Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	publishSample(sink)
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	read := entries[0]
	if read.Kind != "SimpleRead6" || read.State != "completed" || len(read.Records) != 2 {
		t.Errorf("unexpected read entry %+v", read)
	}
	var first operation.SimpleRead6Result
	if err := json.Unmarshal(read.Records[0], &first); err != nil || first.DstID != 1 {
		t.Errorf("first record = %+v, %v", first, err)
	}
	want, _ := driver.Digest([]any{operation.SimpleRead6Result{DstID: 1}, operation.SimpleRead6Result{DstID: 2}})
	if read.Digest != want {
		t.Errorf("digest = %s, want %s", read.Digest, want)
	}

	write := entries[1]
	if write.State != "failed" || write.Error != "account 7 not found" {
		t.Errorf("unexpected write entry %+v", write)
	}

	raw, _ := os.ReadFile(path)
	if json.Valid(raw) {
		t.Error("results log is not compressed")
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(context.Background(), "run", Config{Sink: "kafka"}); !errors.Is(err, ErrUnknownSink) {
		t.Errorf("err = %v, want ErrUnknownSink", err)
	}
	if _, err := Open(context.Background(), "run", Config{Sink: "file"}); !errors.Is(err, driver.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
	sink, err := Open(context.Background(), "run", Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := sink.(Discard); !ok {
		t.Errorf("default sink = %T, want Discard", sink)
	}
}

func TestRedisSink(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	run := uuid.NewString()
	sink, err := NewRedis(context.Background(), run, &redis.Options{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	publishSample(sink)

	entries, err := sink.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Kind != "SimpleRead6" || entries[1].State != "failed" {
		t.Errorf("unexpected entries %+v", entries)
	}

	counters, err := sink.Client.HGetAll(context.Background(), CountersKey(run)).Result()
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if counters["SimpleRead6:completed"] != "1" || counters["Write17:failed"] != "1" {
		t.Errorf("counters = %v", counters)
	}
	sink.Client.Del(context.Background(), ResultsKey(run), CountersKey(run))
	if err := sink.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
