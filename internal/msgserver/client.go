package msgserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client posts text to a relay.
type Client struct {
	// Endpoint is the full message URL, e.g. http://localhost:8765/api/message.
	Endpoint string
	HTTP     *http.Client
}

type postBody struct {
	Text string `json:"text"`
	New  bool   `json:"new"`
}

// Send posts one chunk. newMessage replaces whatever the relay holds.
func (c *Client) Send(ctx context.Context, text string, newMessage bool) error {
	data, err := json.Marshal(postBody{Text: text, New: newMessage})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("posting message: %s", resp.Status)
	}
	return nil
}

// Stream clears the relay, then posts text one rune at a time with delay
// between runes so the overlay shows it being typed.
func (c *Client) Stream(ctx context.Context, text string, delay time.Duration) error {
	if err := c.Send(ctx, "", true); err != nil {
		return err
	}
	for _, r := range text {
		if err := c.Send(ctx, string(r), false); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}
