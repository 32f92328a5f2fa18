package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the state file is checked.
const DefaultInterval = 2 * time.Second

// Clock abstracts time for the poller.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Source yields the current payload, if any.
type Source interface {
	Read() (Payload, bool, error)
}

// Handler consumes a new payload.
type Handler func(ctx context.Context, p Payload) error

// SeenFunc reports whether a payload was already handled. It is called once
// per read and may record the payload as seen.
type SeenFunc func(p Payload) bool

// IncreasingTimestamps treats a payload as new only when its timestamp is
// strictly greater than the last new one.
func IncreasingTimestamps() SeenFunc {
	var last int64
	return func(p Payload) bool {
		if p.Timestamp <= last {
			return true
		}
		last = p.Timestamp
		return false
	}
}

// Poller checks a source at a fixed interval and hands new payloads to a
// handler, one at a time.
type Poller struct {
	source   Source
	handler  Handler
	clock    Clock
	interval time.Duration
	seen     SeenFunc
	log      *zap.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithClock replaces the wall clock.
func WithClock(c Clock) PollerOption {
	return func(p *Poller) { p.clock = c }
}

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSeen replaces the already-seen predicate.
func WithSeen(fn SeenFunc) PollerOption {
	return func(p *Poller) { p.seen = fn }
}

// NewPoller creates a poller. A nil logger discards output.
func NewPoller(src Source, h Handler, log *zap.Logger, opts ...PollerOption) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Poller{
		source:   src,
		handler:  h,
		clock:    SystemClock,
		interval: DefaultInterval,
		log:      log.Named("poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.seen == nil {
		p.seen = IncreasingTimestamps()
	}
	return p
}

// Poll performs one check. It reports whether a payload was handed to the
// handler and returns the handler's error, if any.
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	payload, ok, err := p.source.Read()
	if err != nil {
		return false, err
	}
	if !ok || p.seen(payload) {
		return false, nil
	}
	if !payload.IsImport() {
		p.log.Debug("Ignored payload", zap.String("function", payload.Function))
		return false, nil
	}

	p.log.Info("New payload",
		zap.String("request_id", payload.RequestID),
		zap.Int64("timestamp", payload.Timestamp))
	return true, p.handler(ctx, payload)
}

// Run polls until ctx is cancelled. Read and handler errors are logged and
// never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("Polling", zap.Duration("interval", p.interval))
	for {
		started := p.clock.Now()
		if _, err := p.Poll(ctx); err != nil {
			p.log.Warn("Poll failed", zap.Error(err))
		}
		p.log.Debug("Poll finished", zap.Duration("took", p.clock.Now().Sub(started)))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(p.interval):
		}
	}
}
