package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKeepAlive is the interval between comment lines on idle streams.
const DefaultKeepAlive = 15 * time.Second

// subscriberBuffer is how many payloads a slow subscriber may lag behind
// before new ones are dropped for it.
const subscriberBuffer = 8

// Hub broadcasts payloads to event-stream subscribers grouped by session.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[chan Payload]struct{}

	clock     Clock
	keepAlive time.Duration
	log       *zap.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubClock replaces the clock used to stamp payloads.
func WithHubClock(c Clock) HubOption {
	return func(h *Hub) { h.clock = c }
}

// WithKeepAlive sets the keep-alive interval of event streams.
func WithKeepAlive(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(log *zap.Logger, opts ...HubOption) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		sessions:  make(map[string]map[chan Payload]struct{}),
		clock:     SystemClock,
		keepAlive: DefaultKeepAlive,
		log:       log.Named("hub"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a subscriber for session. The returned function
// unsubscribes and closes the channel.
func (h *Hub) Subscribe(session string) (<-chan Payload, func()) {
	ch := make(chan Payload, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.sessions[session]
	if !ok {
		subs = make(map[chan Payload]struct{})
		h.sessions[session] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.sessions, session)
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of subscribers of session.
func (h *Hub) Subscribers(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[session])
}

// Broadcast sends p to every subscriber of session and returns how many
// received it.
func (h *Hub) Broadcast(session string, p Payload) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for ch := range h.sessions[session] {
		select {
		case ch <- p:
			delivered++
		default:
			h.log.Warn("Dropped payload for slow subscriber",
				zap.String("session", session), zap.String("request_id", p.RequestID))
		}
	}
	return delivered
}

// Session returns a Publisher broadcasting to one session.
func (h *Hub) Session(session string) Publisher {
	return PublisherFunc(func(_ context.Context, p Payload) error {
		if h.Broadcast(session, p) == 0 {
			return fmt.Errorf("session %s: %w", session, ErrNoSubscribers)
		}
		return nil
	})
}

// ErrNoSubscribers is returned when a payload reached nobody.
var ErrNoSubscribers = errors.New("no subscribers")

// Routes returns the HTTP handler of the hub.
func (h *Hub) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/events", h.events)
		r.Post("/import", h.importHTML)
	})
	return r
}

func (h *Hub) createSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": uuid.NewString()})
}

func (h *Hub) events(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "id")
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	payloads, unsubscribe := h.Subscribe(session)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	h.log.Info("Subscriber connected", zap.String("session", session))
	defer h.log.Info("Subscriber disconnected", zap.String("session", session))

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case p, ok := <-payloads:
			if !ok {
				return
			}
			data, err := json.Marshal(p)
			if err != nil {
				h.log.Error("Encode payload", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: import\nid: %s\ndata: %s\n\n", p.RequestID, data)
			flusher.Flush()
		}
	}
}

func (h *Hub) importHTML(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "id")

	var args Arguments
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode arguments: %w", err))
		return
	}
	if strings.TrimSpace(args.HTML) == "" {
		writeError(w, http.StatusBadRequest, errors.New("html is required"))
		return
	}

	p, err := NewPayload(h.clock.Now(), args)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	delivered := h.Broadcast(session, p)
	h.log.Info("Published import",
		zap.String("session", session),
		zap.String("request_id", p.RequestID),
		zap.Int("delivered", delivered))

	writeJSON(w, http.StatusAccepted, map[string]any{
		"requestId": p.RequestID,
		"delivered": delivered,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
