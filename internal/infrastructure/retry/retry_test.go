package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 50 * time.Millisecond},
		{2, 100 * time.Millisecond},
		{3, 200 * time.Millisecond},
		{4, 400 * time.Millisecond},
		{5, 500 * time.Millisecond},
		{10, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		got := Backoff(50*time.Millisecond, 500*time.Millisecond, tt.attempt)
		if got != tt.want {
			t.Errorf("Backoff(attempt=%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bad conn", driver.ErrBadConn, true},
		{"refused", errors.New("dial tcp 127.0.0.1:27017: connect: connection refused"), true},
		{"server selection", errors.New("server selection error: context deadline"), true},
		{"no reachable servers", errors.New("no reachable servers"), true},
		{"dns", errors.New("dial tcp: lookup mongo on 127.0.0.11:53: no such host"), true},
		{"access denied", errors.New("Error 1045 (28000): Access denied for user 'root'"), false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"syntax", errors.New("syntax error near 'FROM'"), false},
	}

	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("%s: IsTransient = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 5, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return driver.ErrBadConn
			}
			return nil
		}, nil)

	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 5}, func(ctx context.Context) error {
		calls++
		return boom
	}, nil)

	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		func(ctx context.Context) error {
			calls++
			return driver.ErrBadConn
		}, nil)

	if !errors.Is(err, driver.ErrBadConn) {
		t.Fatalf("expected ErrBadConn, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

type flakyPinger struct {
	failures int
	calls    int
	err      error
}

func (p *flakyPinger) Ping(ctx context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		if p.err != nil {
			return p.err
		}
		return errors.New("no reachable servers")
	}
	return nil
}

func TestPingWithRetry(t *testing.T) {
	t.Parallel()

	p := &flakyPinger{failures: 2}
	err := PingWithRetry(context.Background(), p, nil, Policy{MaxAttempts: 5, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond})
	if err != nil {
		t.Fatalf("PingWithRetry returned error: %v", err)
	}
	if p.calls != 3 {
		t.Errorf("expected 3 pings, got %d", p.calls)
	}
}

func TestPingWithRetry_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := PingWithRetry(ctx, &flakyPinger{failures: 100}, nil, DefaultStartup)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPingWithRetry_PermanentErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	denied := errors.New("Error 1045 (28000): Access denied for user 'root'")
	p := &flakyPinger{failures: 100, err: denied}

	err := PingWithRetry(context.Background(), p, nil, Policy{MaxAttempts: 5, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond})
	if !errors.Is(err, denied) {
		t.Fatalf("expected access denied error, got %v", err)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 ping, got %d", p.calls)
	}
}
