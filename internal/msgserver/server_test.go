package msgserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func getMessage(t *testing.T, url string) Message {
	t.Helper()
	resp, err := http.Get(url + MessagePath)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status %d", resp.StatusCode)
	}
	var m Message
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestAccumulatesChunks(t *testing.T) {
	srv := httptest.NewServer(New(nil).Handler())
	defer srv.Close()
	c := &Client{Endpoint: srv.URL + MessagePath, HTTP: srv.Client()}
	ctx := context.Background()

	if m := getMessage(t, srv.URL); m.Text != "" || m.HasMore {
		t.Errorf("empty relay returned %+v", m)
	}

	for _, step := range []struct {
		text string
		new  bool
	}{
		{"Hel", true},
		{"lo", false},
		{"", false},
		{"!", false},
	} {
		if err := c.Send(ctx, step.text, step.new); err != nil {
			t.Fatalf("Send(%q): %v", step.text, err)
		}
	}
	if m := getMessage(t, srv.URL); m.Text != "Hello!" {
		t.Errorf("text = %q, want Hello!", m.Text)
	}

	// GET does not consume.
	if m := getMessage(t, srv.URL); m.Text != "Hello!" {
		t.Errorf("second GET = %q", m.Text)
	}

	if err := c.Send(ctx, "Bye", true); err != nil {
		t.Fatal(err)
	}
	if m := getMessage(t, srv.URL); m.Text != "Bye" {
		t.Errorf("new message text = %q, want Bye", m.Text)
	}

	if err := c.Send(ctx, "", true); err != nil {
		t.Fatal(err)
	}
	if m := getMessage(t, srv.URL); m.Text != "" {
		t.Errorf("cleared text = %q", m.Text)
	}
}

func TestRejectsBadJSON(t *testing.T) {
	s := New(nil)
	s.Append("keep", true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, MessagePath, strings.NewReader(`{"text": `))
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"error"`) {
		t.Errorf("body %q", rec.Body.String())
	}
	if s.Current() != "keep" {
		t.Errorf("bad request changed text to %q", s.Current())
	}
}

func TestRouting(t *testing.T) {
	h := New(nil).Handler()
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, MessagePath, http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/other", http.StatusNotFound},
		{http.MethodDelete, MessagePath, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestCORSHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	New(nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MessagePath, nil))
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header %q", got)
	}
}

func TestStream(t *testing.T) {
	s := New(nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	s.Append("old text", true)
	c := &Client{Endpoint: srv.URL + MessagePath}
	if err := c.Stream(context.Background(), "héllo", time.Millisecond); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if s.Current() != "héllo" {
		t.Errorf("streamed text %q", s.Current())
	}
}

func TestSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := &Client{Endpoint: srv.URL + MessagePath}
	if err := c.Send(context.Background(), "x", true); err == nil {
		t.Error("expected error for 404")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	c := &Client{Endpoint: url + MessagePath}
	if err := c.Send(context.Background(), "up", true); err != nil {
		t.Fatalf("Send: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
