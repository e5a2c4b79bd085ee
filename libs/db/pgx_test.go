package db

import (
	"context"
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.MaxConns != 10 || o.MinConns != 1 {
		t.Fatalf("unexpected conns %d/%d", o.MaxConns, o.MinConns)
	}
	if o.MaxConnLifetime != 30*time.Minute || o.MaxConnIdleTime != 5*time.Minute {
		t.Fatalf("unexpected lifetimes %s/%s", o.MaxConnLifetime, o.MaxConnIdleTime)
	}

	o = Options{MaxConns: 2, MinConns: 5}.withDefaults()
	if o.MinConns != 2 {
		t.Fatalf("expected MinConns clamped to 2, got %d", o.MinConns)
	}
}

func TestReadyCheck_NilPool(t *testing.T) {
	if err := ReadyCheck(nil)(context.Background()); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
