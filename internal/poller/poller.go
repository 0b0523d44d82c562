// Package poller fetches the current speech bubble text from an HTTP feed
// and forwards changes to the render thread.
package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/logger"
	"github.com/Faultbox/deskpet/internal/mailbox"
)

const maxBody = 1 << 20

var (
	ErrStatus    = errors.New("unexpected status")
	ErrMalformed = errors.New("malformed message")
)

// Sink receives bubble events. *mailbox.Mailbox satisfies it.
type Sink interface {
	Put(mailbox.Event)
}

// Poller polls the feed on its own goroutine. Only the last observed text is
// shared, and only through atomics.
type Poller struct {
	cfg    config.PollerConfig
	client *http.Client
	sink   Sink
	log    *zap.Logger

	last     atomic.Pointer[string]
	failures rate.Sometimes
	polls    atomic.Int64
	wg       sync.WaitGroup
}

// New creates a poller. A nil client gets a default one; per-request
// timeouts come from cfg.Timeout either way.
func New(cfg config.PollerConfig, client *http.Client, sink Sink, log *zap.Logger) *Poller {
	if client == nil {
		client = &http.Client{}
	}
	p := &Poller{
		cfg:      cfg,
		client:   client,
		sink:     sink,
		log:      logger.OrNamed(log, "poller"),
		failures: rate.Sometimes{First: 1, Interval: time.Minute},
	}
	empty := ""
	p.last.Store(&empty)
	return p
}

// Start polls immediately, then every interval, until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

// Wait blocks until the polling goroutine has exited.
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context) {
	p.log.Info("polling message feed",
		zap.String("endpoint", p.cfg.Endpoint),
		zap.Duration("interval", p.cfg.Interval))

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		p.tick(ctx)

		select {
		case <-ctx.Done():
			p.log.Debug("poller stopped", zap.Int64("polls", p.polls.Load()))
			return
		case <-ticker.C:
		}
	}
}

// tick runs one poll and swallows its error.
func (p *Poller) tick(ctx context.Context) {
	err := p.Poll(ctx)
	if err == nil || ctx.Err() != nil {
		return
	}
	p.log.Debug("poll failed", zap.Error(err))
	p.failures.Do(func() {
		p.log.Warn("message feed unavailable, will keep retrying", zap.Error(err))
	})
}

// Poll fetches the feed once and emits an event if the text changed.
func (p *Poller) Poll(ctx context.Context) error {
	p.polls.Add(1)

	text, ok, err := p.fetch(ctx)
	if err != nil || !ok {
		return err
	}

	if prev := p.last.Swap(&text); *prev == text {
		return nil
	}
	if text == "" {
		p.sink.Put(mailbox.Clear())
		p.log.Debug("message cleared")
		return nil
	}
	p.sink.Put(mailbox.Update(text))
	p.log.Debug("message received", zap.Int("chars", len([]rune(text))))
	return nil
}

// LastText returns the text seen by the most recent successful poll.
func (p *Poller) LastText() string {
	return *p.last.Load()
}

// fetch returns the feed's text field. ok is false when the field is absent.
func (p *Poller) fetch(ctx context.Context) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.Endpoint, nil)
	if err != nil {
		return "", false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("fetching message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return "", false, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", false, fmt.Errorf("reading message: %w", err)
	}
	return parse(body)
}

func parse(body []byte) (string, bool, error) {
	if !gjson.ValidBytes(body) {
		return "", false, ErrMalformed
	}
	res := gjson.GetBytes(body, "text")
	switch res.Type {
	case gjson.Null:
		return "", false, nil
	case gjson.String:
		return res.Str, true, nil
	default:
		return "", false, fmt.Errorf("%w: text is %s", ErrMalformed, res.Type)
	}
}
