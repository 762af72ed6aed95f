package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeWarmer struct {
	mu      sync.Mutex
	calls   int
	tickers []string
	period  string
	err     error
	done    chan struct{}
}

func (f *fakeWarmer) Warm(ctx context.Context, tickers []string, period, interval string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tickers, f.period = tickers, period+"|"+interval
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("run without deadline")
	}
	if f.done != nil && f.calls == 1 {
		close(f.done)
	}
	return f.err
}

func TestNew_InvalidSchedule(t *testing.T) {
	if _, err := New("every now and then", []string{"AAPL"}, &fakeWarmer{}); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestRunOnce(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "success"},
		{name: "warm failure", err: errors.New("redis down"), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &fakeWarmer{err: tc.err}
			tickers := []string{"AAPL", "MSFT"}
			s, err := New("@every 1h", tickers, w)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			tickers[0] = "MUTATED"

			err = s.RunOnce(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr=%v got %v", tc.wantErr, err)
			}
			if w.calls != 1 || w.tickers[0] != "AAPL" || w.period != "1y|1d" {
				t.Fatalf("unexpected warm call: %+v", w)
			}
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	w := &fakeWarmer{done: make(chan struct{})}
	s, err := New("@every 1s", []string{"AAPL"}, w)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case <-w.done:
	case <-time.After(3 * time.Second):
		t.Fatalf("scheduled run did not happen")
	}
}
