package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/mailbox"
)

type recordingSink struct {
	mu     sync.Mutex
	events []mailbox.Event
}

func (r *recordingSink) Put(ev mailbox.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) snapshot() []mailbox.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailbox.Event(nil), r.events...)
}

// scriptedFeed serves one response per request, repeating the last.
type scriptedFeed struct {
	mu    sync.Mutex
	steps []func(http.ResponseWriter)
	hits  atomic.Int32
}

func body(s string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(s))
	}
}

func status(code int) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) { w.WriteHeader(code) }
}

func (f *scriptedFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(f.hits.Add(1)) - 1
	f.mu.Lock()
	step := f.steps[min(n, len(f.steps)-1)]
	f.mu.Unlock()
	step(w)
}

func newTestPoller(t *testing.T, feed http.Handler) (*Poller, *recordingSink) {
	t.Helper()
	srv := httptest.NewServer(feed)
	t.Cleanup(srv.Close)

	cfg := config.Default().Poller
	cfg.Endpoint = srv.URL + "/api/message"
	cfg.Interval = 10 * time.Millisecond
	cfg.Timeout = time.Second

	sink := &recordingSink{}
	return New(cfg, srv.Client(), sink, nil), sink
}

func TestPollEmitsChanges(t *testing.T) {
	feed := &scriptedFeed{steps: []func(http.ResponseWriter){
		body(`{"text": "", "hasMore": false}`),
		body(`{"text": "hello", "hasMore": false}`),
		body(`{"text": "hello", "hasMore": false}`),
		body(`{"text": "hello again", "hasMore": true}`),
		body(`{"text": ""}`),
		body(`{"text": ""}`),
	}}
	p, sink := newTestPoller(t, feed)

	for i := 0; i < len(feed.steps); i++ {
		if err := p.Poll(context.Background()); err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
	}

	want := []mailbox.Event{
		mailbox.Update("hello"),
		mailbox.Update("hello again"),
		mailbox.Clear(),
	}
	got := sink.snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d events %+v, want %+v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPollMissingTextIsNoUpdate(t *testing.T) {
	feed := &scriptedFeed{steps: []func(http.ResponseWriter){
		body(`{"text": "hi"}`),
		body(`{"hasMore": false}`),
		body(`{"text": null}`),
	}}
	p, sink := newTestPoller(t, feed)

	for i := 0; i < 3; i++ {
		if err := p.Poll(context.Background()); err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
	}
	if got := sink.snapshot(); len(got) != 1 {
		t.Errorf("got events %+v, want only the first update", got)
	}
	if p.LastText() != "hi" {
		t.Errorf("LastText = %q, want hi", p.LastText())
	}
}

func TestPollErrorsAreReportedNotEmitted(t *testing.T) {
	tests := []struct {
		name string
		step func(http.ResponseWriter)
		want error
	}{
		{"server error", status(http.StatusInternalServerError), ErrStatus},
		{"not found", status(http.StatusNotFound), ErrStatus},
		{"not json", body(`<html>`), ErrMalformed},
		{"text not a string", body(`{"text": 42}`), ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &scriptedFeed{steps: []func(http.ResponseWriter){body(`{"text": "before"}`), tt.step}}
			p, sink := newTestPoller(t, feed)

			if err := p.Poll(context.Background()); err != nil {
				t.Fatalf("first poll: %v", err)
			}
			err := p.Poll(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if got := sink.snapshot(); len(got) != 1 {
				t.Errorf("failure emitted events: %+v", got)
			}
			if p.LastText() != "before" {
				t.Errorf("failure changed LastText to %q", p.LastText())
			}
		})
	}
}

func TestPollUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := config.Default().Poller
	cfg.Endpoint = url
	p := New(cfg, nil, &recordingSink{}, nil)

	if err := p.Poll(context.Background()); err == nil {
		t.Error("expected connection error")
	}
}

func TestPollTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	p, _ := newTestPoller(t, slow)
	p.cfg.Timeout = 20 * time.Millisecond

	start := time.Now()
	err := p.Poll(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout was not enforced")
	}
}

func TestStartPollsUntilCancelled(t *testing.T) {
	feed := &scriptedFeed{steps: []func(http.ResponseWriter){
		body(`{"text": "tick"}`),
		status(http.StatusServiceUnavailable),
		body(`{"text": "tock"}`),
	}}
	p, sink := newTestPoller(t, feed)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for feed.hits.Load() < 4 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}

	got := sink.snapshot()
	if len(got) != 2 || got[0].Text != "tick" || got[1].Text != "tock" {
		t.Errorf("events = %+v, want tick then tock", got)
	}
}

func TestStartPollsImmediately(t *testing.T) {
	feed := &scriptedFeed{steps: []func(http.ResponseWriter){body(`{"text": "now"}`)}}
	p, _ := newTestPoller(t, feed)
	p.cfg.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for feed.hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if feed.hits.Load() == 0 {
		t.Error("first poll did not happen before the first interval")
	}
	cancel()
	p.Wait()
}
