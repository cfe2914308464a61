package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 500 * time.Millisecond,
		RetryInterval:  50 * time.Millisecond,
		MaxWait:        100 * time.Millisecond,
		PingTimeout:    100 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), testOptions(mr.Addr()), logger.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close client: %v", err)
		}
	}()
}

func TestNewTimesOut(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	_, err := New(context.Background(), testOptions(addr), logger.NewNop())
	if err == nil {
		t.Fatal("New() should fail when redis is unreachable")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("New() took %v, connect timeout not honoured", elapsed)
	}
}

func TestNewHonoursCancellation(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	opts := testOptions(addr)
	opts.ConnectTimeout = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := New(ctx, opts, logger.NewNop()); err == nil {
		t.Fatal("New() should fail once ctx is done")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("New() took %v after cancellation", elapsed)
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *ConnectOptions)
	}{
		{name: "empty addr", mutate: func(o *ConnectOptions) { o.Addr = "" }},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("localhost:0")
			tt.mutate(&opts)
			if err := opts.validate(); err == nil {
				t.Errorf("validate() should reject %s", tt.name)
			}
		})
	}

	if err := testOptions("localhost:0").validate(); err != nil {
		t.Errorf("validate() rejected valid options: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	opts := testOptions("")
	opts.PingTimeout = 0

	err := opts.validate()
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Fatalf("validate() = %v, want two joined errors", err)
	}
}

func TestBackoff(t *testing.T) {
	b := backoff{next: 2 * time.Second, max: 10 * time.Second}

	want := []time.Duration{2, 4, 8, 10, 10}
	for i, w := range want {
		if got := b.step(); got != w*time.Second {
			t.Errorf("step %d = %v, want %v", i, got, w*time.Second)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisDB:             3,
		RedisPoolSize:       7,
		RedisConnectTimeout: 30 * time.Second,
		RedisWarnThreshold:  4,
	}

	opts := FromConfig(cfg)
	if opts.Addr != "redis:6379" || opts.RedisDB != 3 || opts.PoolSize != 7 ||
		opts.ConnectTimeout != 30*time.Second || opts.WarnThreshold != 4 {
		t.Errorf("FromConfig() = %+v", opts)
	}
}
