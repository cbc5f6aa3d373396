package util

import (
	"errors"
	"strings"
	"testing"
)

func TestTry(t *testing.T) {
	if got := Try(42, nil); got != 42 {
		t.Errorf("Try = %d", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Try did not panic on error")
		}
	}()
	Try(0, errors.New("boom"))
}

func TestRandomString(t *testing.T) {
	s := RandomString(16)
	if len(s) != 16 {
		t.Fatalf("len = %d", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(alphanumerics, c) {
			t.Errorf("unexpected rune %q", c)
		}
	}
}
