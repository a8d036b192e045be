// Package session implements the Mnet session layer: serial-number
// discovery, login, per-session key caching, and the dictionary
// accessors built on top of the frame, obfuscation and typed-value
// codecs.
package session

import (
	"sync"
	"time"

	"github.com/beezly/turbine/internal/metrics"
	"github.com/beezly/turbine/internal/transport"
	"github.com/beezly/turbine/pkg/obfuscate"
	"github.com/beezly/turbine/pkg/tracer"
)

// State is the session's lifecycle stage.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateKeyed
	StateLoggedIn
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateKeyed:
		return "keyed"
	case StateLoggedIn:
		return "loggedin"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultSourceAddress is the local node address Mnet requests are sent
// from, unless overridden with WithSource.
const DefaultSourceAddress byte = 0x01

// Session owns one transport and serializes every request/response
// pair issued against it. It is safe to call its operations from
// multiple goroutines; calls are serialized internally — per spec.md
// §5, the protocol forbids interleaving requests on one transport, not
// concurrent callers.
type Session struct {
	mu sync.Mutex

	stream  transport.ByteStream
	source  byte
	opTO    time.Duration
	tracer  tracer.Tracer
	metrics *metrics.Metrics

	state State

	serial     [4]byte
	haveSerial bool
	key        obfuscate.Key

	controllerTimeAtRead time.Time
	hostTimeAtRead       time.Time
	haveTimeOffset       bool
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithSource overrides the local node address (default 0x01).
func WithSource(source byte) Option {
	return func(s *Session) { s.source = source }
}

// WithTracer injects a Tracer to observe requests/responses/decoded
// elements. Defaults to tracer.NoOp.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// WithMetrics attaches a Prometheus metrics set. Nil (the default)
// disables metrics recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithOperationTimeout records a per-request/response deadline on the
// session. It is not passed to the transport: the transport's own
// timeout is the one given when it was constructed.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Session) { s.opTO = d }
}

// New wraps an already-open ByteStream in a Session. The session starts
// in StateConnected; it transitions to StateKeyed on the first operation
// that needs obfuscation (or an explicit Login), and to StateLoggedIn
// once Login succeeds.
func New(stream transport.ByteStream, opts ...Option) *Session {
	s := &Session{
		stream: stream,
		source: DefaultSourceAddress,
		tracer: tracer.NoOp{},
		state:  StateConnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the session's current lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close releases the underlying transport and moves the session to
// StateClosed. No in-flight continuation is preserved.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
	return s.stream.Close()
}

// Reset forgets the cached serial number and key, returning the session
// to StateConnected. The caller must hold no assumptions about
// in-flight requests across a Reset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haveSerial = false
	s.key = obfuscate.Key{}
	s.haveTimeOffset = false
	if s.state != StateClosed {
		s.state = StateConnected
	}
}

// TimeOffset returns the difference between the controller clock and
// the host clock as observed at the last GetControllerTime call
// (controller minus host), and whether such an observation has been
// made yet. The core never reads the host clock itself outside of this
// bookkeeping; see SPEC_FULL.md §8.
func (s *Session) TimeOffset() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveTimeOffset {
		return 0, false
	}
	return s.controllerTimeAtRead.Sub(s.hostTimeAtRead), true
}
