package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/validator"
	"golang.org/x/sync/semaphore"
)

var (
	ErrInvalidDraft         = errors.New("form is not ready for submission")
	ErrInFlight             = errors.New("operation already in progress")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("not authenticated")
	// ErrSuperseded is returned when a submission succeeded on the server but a
	// newer transition had already been committed, so its result was dropped and
	// the credential it obtained was ended.
	ErrSuperseded = errors.New("result superseded by a newer session change")
)

// Machine is the single writer of the session State.
//
// Every operation takes a ticket when it is issued. A result is committed only
// if its ticket is newer than the ticket of the last committed transition, so a
// slow response can never overwrite the outcome of a faster, later operation.
// Subscribers run synchronously after each commit, before the triggering call
// returns, and without any machine lock held.
type Machine struct {
	client   client.Client
	log      logging.Logger
	notifier Notifier

	mu      sync.Mutex
	state   State
	issued  uint64
	applied uint64
	version uint64
	subs    []*subscriber

	bootOnce   sync.Once
	bootTicket uint64

	submitSem *semaphore.Weighted
	logoutSem *semaphore.Weighted
}

type Option func(*Machine)

func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.log = l }
}

func WithNotifier(n Notifier) Option {
	return func(m *Machine) { m.notifier = n }
}

// New returns a machine in the Loading state. The bootstrap ticket is reserved
// here, so any submission issued before Bootstrap resolves outranks it.
func New(c client.Client, opts ...Option) *Machine {
	m := &Machine{
		client:    c,
		log:       logging.Discard(),
		notifier:  discardNotifier{},
		state:     LoadingState(),
		submitSem: semaphore.NewWeighted(1),
		logoutSem: semaphore.NewWeighted(1),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With("component", "session")

	m.issued = 1
	m.bootTicket = 1
	return m
}

// Current returns a snapshot of the state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Bootstrap checks the stored credential once per machine. Later calls wait
// for the first one and return the current state without touching the network.
func (m *Machine) Bootstrap(ctx context.Context) State {
	m.bootOnce.Do(func() { m.bootstrap(ctx) })
	return m.Current()
}

func (m *Machine) bootstrap(ctx context.Context) {
	u, err := m.client.CheckSession(ctx)
	switch {
	case err == nil:
		m.log.Info(ctx, "session restored", "user", u.Username)
		m.apply(ctx, m.bootTicket, AuthenticatedState(u))
		return
	case errors.Is(err, client.ErrNoSession):
		m.log.Info(ctx, "no active session")
	case errors.Is(err, client.ErrOriginRejected):
		m.log.Error(ctx, "server rejected client origin", "error", err)
		m.notifier.Notify(Notice{Kind: NoticeConfig, Message: msgOriginRejected})
	default:
		m.log.Warn(ctx, "session check failed", "error", err)
		m.notifier.Notify(Notice{Kind: NoticeFailure, Message: msgFailure})
	}
	m.apply(ctx, m.bootTicket, AnonymousState())
}

// Login submits the draft to the login endpoint. The draft is a copy; the
// caller clears its own draft when Login returns nil.
func (m *Machine) Login(ctx context.Context, draft validator.Draft) error {
	return m.submit(ctx, client.KindLogin, draft)
}

// Register submits the draft to the register endpoint.
func (m *Machine) Register(ctx context.Context, draft validator.Draft) error {
	return m.submit(ctx, client.KindRegister, draft)
}

func (m *Machine) submit(ctx context.Context, kind client.Kind, draft validator.Draft) error {
	if !draft.Ready() {
		return ErrInvalidDraft
	}
	if !m.submitSem.TryAcquire(1) {
		return ErrInFlight
	}
	defer m.submitSem.Release(1)

	ticket, ok := m.issueIf(func(s State) bool { return !s.IsAuthenticated() })
	if !ok {
		return ErrAlreadyAuthenticated
	}

	u, err := m.client.SubmitCredentials(ctx, kind, client.Credentials{
		Username: draft.Username,
		Password: draft.Password,
	})
	if err != nil {
		m.submitFailed(ctx, kind, err)
		return fmt.Errorf("%s: %w", kind, err)
	}

	if !m.apply(ctx, ticket, AuthenticatedState(u)) {
		m.dropCredential(ctx, kind)
		return ErrSuperseded
	}
	m.log.Info(ctx, "signed in", "kind", kind.String(), "user", u.Username)
	return nil
}

// dropCredential ends the session a superseded submission just opened on the
// server. The submission semaphore is still held, so no newer credential can
// be lost here.
func (m *Machine) dropCredential(ctx context.Context, kind client.Kind) {
	if err := m.client.EndSession(context.WithoutCancel(ctx)); err != nil {
		m.log.Warn(ctx, "could not end superseded session", "kind", kind.String(), "error", err)
	}
}

func (m *Machine) submitFailed(ctx context.Context, kind client.Kind, err error) {
	var se *client.ServerError
	switch {
	case errors.As(err, &se):
		m.log.Info(ctx, "credentials rejected", "kind", kind.String(), "status", se.Status)
		m.notifier.Notify(Notice{Kind: NoticeRejected, Message: se.Message})
	case errors.Is(err, client.ErrOriginRejected):
		m.log.Error(ctx, "server rejected client origin", "kind", kind.String(), "error", err)
		m.notifier.Notify(Notice{Kind: NoticeConfig, Message: msgOriginRejected})
	default:
		m.log.Warn(ctx, "submission failed", "kind", kind.String(), "error", err)
		m.notifier.Notify(Notice{Kind: NoticeFailure, Message: msgFailure})
	}
}

// Logout ends the session on the server and then clears it locally, whatever
// the server answered. It fails only when there is nothing to log out from or
// another logout is still running.
func (m *Machine) Logout(ctx context.Context) error {
	if !m.logoutSem.TryAcquire(1) {
		return ErrInFlight
	}
	defer m.logoutSem.Release(1)

	ticket, ok := m.issueIf(State.IsAuthenticated)
	if !ok {
		return ErrNotAuthenticated
	}

	if err := m.client.EndSession(ctx); err != nil {
		m.log.Warn(ctx, "logout not confirmed by server", "error", err)
		m.notifier.Notify(Notice{Kind: NoticeFailure, Message: msgLogoutFailure})
	}

	m.apply(ctx, ticket, AnonymousState())
	return nil
}

// Invalidate clears an authenticated session after a protected call reported
// it as gone. It reports whether cause was a missing-session error.
func (m *Machine) Invalidate(ctx context.Context, cause error) bool {
	if !errors.Is(cause, client.ErrNoSession) {
		return false
	}

	ticket, ok := m.issueIf(State.IsAuthenticated)
	if !ok {
		return true
	}
	m.log.Info(ctx, "session expired on server")
	m.apply(ctx, ticket, AnonymousState())
	return true
}

// issueIf takes a new ticket when the current state satisfies cond.
func (m *Machine) issueIf(cond func(State) bool) (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !cond(m.state) {
		return 0, false
	}
	m.issued++
	return m.issued, true
}

// apply commits next unless a transition with a newer ticket is already in
// place, then notifies subscribers.
func (m *Machine) apply(ctx context.Context, ticket uint64, next State) bool {
	m.mu.Lock()
	if ticket <= m.applied || next.IsLoading() {
		m.mu.Unlock()
		m.log.Info(ctx, "discarding stale result", "ticket", ticket, "state", next.Kind.String())
		return false
	}
	m.applied = ticket
	m.state = next
	m.version++
	version := m.version
	subs := slices.Clone(m.subs)
	m.mu.Unlock()

	m.log.Debug(ctx, "state changed", "state", next.Kind.String(), "ticket", ticket)
	for _, s := range subs {
		s.deliver(ctx, m.log, next, version+1)
	}
	return true
}

// Subscribe registers fn and immediately calls it with the current state.
// fn is then called after every committed transition. The returned function
// unsubscribes; it is safe to call more than once.
func (m *Machine) Subscribe(fn func(State)) (unsubscribe func()) {
	s := &subscriber{fn: fn}

	m.mu.Lock()
	m.subs = append(m.subs, s)
	state, version := m.state, m.version
	m.mu.Unlock()

	s.deliver(context.Background(), m.log, state, version+1)

	return func() {
		s.closed.Store(true)
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subs = slices.DeleteFunc(m.subs, func(x *subscriber) bool { return x == s })
	}
}

type subscriber struct {
	fn     func(State)
	closed atomic.Bool
	// seen is one past the last delivered version, so zero means nothing yet.
	seen atomic.Uint64
}

// deliver calls fn unless a newer state was already delivered. mark is
// version+1 so that the initial delivery of version 0 is not confused with
// "never delivered".
func (s *subscriber) deliver(ctx context.Context, log logging.Logger, st State, mark uint64) {
	for {
		if s.closed.Load() {
			return
		}
		seen := s.seen.Load()
		if mark <= seen {
			return
		}
		if s.seen.CompareAndSwap(seen, mark) {
			break
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error(ctx, "subscriber panicked", "panic", r, "state", st.Kind.String())
		}
	}()
	s.fn(st)
}
