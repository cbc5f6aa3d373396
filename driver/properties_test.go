package driver

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestProperties(t *testing.T) {
	props := Properties{
		"dsn":            "file:test.db",
		"pool.size":      " 8 ",
		"schema.create":  "true",
		"close.timeout":  "2s",
		"riak.addresses": "127.0.0.1:8087, ,10.0.0.2:8087",
		"blank":          "  ",
		"bad.int":        "eight",
	}

	if v, err := props.Required("dsn"); err != nil || v != "file:test.db" {
		t.Errorf("Required(dsn) = %q, %v", v, err)
	}
	for _, key := range []string{"missing", "blank"} {
		if _, err := props.Required(key); !errors.Is(err, ErrConfig) {
			t.Errorf("Required(%s): err = %v, want ErrConfig", key, err)
		}
	}

	if n, err := props.Int("pool.size", 1); err != nil || n != 8 {
		t.Errorf("Int(pool.size) = %d, %v", n, err)
	}
	if n, err := props.Int("absent", 4); err != nil || n != 4 {
		t.Errorf("Int default = %d, %v", n, err)
	}
	if _, err := props.Int("bad.int", 1); !errors.Is(err, ErrConfig) {
		t.Errorf("Int(bad.int): err = %v, want ErrConfig", err)
	}
	if b, err := props.Bool("schema.create", false); err != nil || !b {
		t.Errorf("Bool(schema.create) = %v, %v", b, err)
	}
	if d, err := props.Duration("close.timeout", time.Second); err != nil || d != 2*time.Second {
		t.Errorf("Duration(close.timeout) = %v, %v", d, err)
	}
	if got := props.String("driver", "sqlite3"); got != "sqlite3" {
		t.Errorf("String default = %q", got)
	}

	want := []string{"127.0.0.1:8087", "10.0.0.2:8087"}
	if got := props.List("riak.addresses"); !slices.Equal(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
	if got := props.List("absent"); len(got) != 0 {
		t.Errorf("List(absent) = %v, want empty", got)
	}
}
