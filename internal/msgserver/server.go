// Package msgserver is a tiny HTTP relay between a text producer and the
// overlay. Producers POST chunks; the overlay polls the accumulated text.
package msgserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/deskpet/internal/logger"
)

// MessagePath is the single resource the relay serves.
const MessagePath = "/api/message"

const maxPostBody = 64 << 10

// Message is the GET response body.
type Message struct {
	Text    string `json:"text"`
	HasMore bool   `json:"hasMore"`
}

// Server accumulates posted chunks into the current message.
type Server struct {
	log *zap.Logger

	mu     sync.Mutex
	chunks []string
}

// New returns an empty relay.
func New(log *zap.Logger) *Server {
	return &Server{log: logger.OrNamed(log, "msgserver")}
}

// Handler routes the relay's endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+MessagePath, s.handleGet)
	mux.HandleFunc("POST "+MessagePath, s.handlePost)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Current returns the accumulated text.
func (s *Server) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.chunks, "")
}

// Append adds a chunk. A new message discards everything accumulated so far.
func (s *Server) Append(text string, newMessage bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newMessage {
		s.chunks = s.chunks[:0]
	}
	if text != "" {
		s.chunks = append(s.chunks, text)
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Message{Text: s.Current()})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPostBody))
	if err == nil && !gjson.ValidBytes(body) {
		err = errors.New("request body is not valid JSON")
	}
	if err != nil {
		s.log.Warn("rejecting message", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": err.Error()})
		return
	}

	text := gjson.GetBytes(body, "text").String()
	newMessage := gjson.GetBytes(body, "new").Bool()
	s.Append(text, newMessage)

	s.log.Debug("message chunk",
		zap.Int("chars", len([]rune(text))),
		zap.Bool("new", newMessage))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("message server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("message server stopping")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
