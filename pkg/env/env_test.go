package env

import (
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	t.Setenv("HOMIO_TEST_VALUE", "  x ")
	if got := Get("HOMIO_TEST_VALUE", "fallback"); got != "x" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	t.Setenv("HOMIO_TEST_VALUE", "   ")
	if got := Get("HOMIO_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("HOMIO_TEST_TIMEOUT", "3s")
	if got := Duration("HOMIO_TEST_TIMEOUT", time.Second); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}
	t.Setenv("HOMIO_TEST_TIMEOUT", "soon")
	if got := Duration("HOMIO_TEST_TIMEOUT", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %v", got)
	}
}
