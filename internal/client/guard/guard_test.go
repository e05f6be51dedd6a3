package guard

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/client/models"
	"github.com/dmitrijs2005/gophsession/internal/client/session"
	"github.com/dmitrijs2005/gophsession/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboard = "/dashboard"

var abc = models.User{UserID: "u1", Username: "abc"}

// ---- fakes ----

type fakeSource struct {
	mu    sync.Mutex
	state session.State
	subs  map[int]func(session.State)
	next  int
}

func newFakeSource(st session.State) *fakeSource {
	return &fakeSource{state: st, subs: map[int]func(session.State){}}
}

func (f *fakeSource) Current() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSource) Subscribe(fn func(session.State)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	st := f.state
	f.mu.Unlock()

	fn(st)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeSource) set(st session.State) {
	f.mu.Lock()
	f.state = st
	subs := make([]func(session.State), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

func (f *fakeSource) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingNav) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingNav) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// ---- Decide / Policy ----

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		want  Decision
	}{
		{name: "loading waits", state: session.LoadingState(), want: Decision{Verdict: Wait}},
		{name: "authenticated allowed", state: session.AuthenticatedState(abc), want: Decision{Verdict: Allow, Path: dashboard}},
		{name: "anonymous redirected home", state: session.AnonymousState(), want: Decision{Verdict: Redirect, Path: HomePath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(dashboard, tt.state))
		})
	}
}

func TestPolicy_PublicViewsAlwaysAllowed(t *testing.T) {
	p := NewPolicy(dashboard)

	for _, st := range []session.State{session.LoadingState(), session.AnonymousState(), session.AuthenticatedState(abc)} {
		assert.Equal(t, Decision{Verdict: Allow, Path: "/login"}, p.Decide("/login", st), st.String())
	}
	assert.True(t, p.Protected(dashboard))
	assert.False(t, p.Protected("/"))
	assert.Equal(t, Decision{Verdict: Redirect, Path: HomePath}, p.Decide(dashboard, session.AnonymousState()))
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "wait", Wait.String())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect", Redirect.String())
	assert.Equal(t, "unknown", Verdict(42).String())
}

// ---- Guard ----

func TestGuard_WaitsThenAllows(t *testing.T) {
	src := newFakeSource(session.LoadingState())
	nav := &recordingNav{}
	var decisions []Decision
	g := New(src, nav, NewPolicy(dashboard), WithOnDecision(func(view string, d Decision) {
		decisions = append(decisions, d)
	}))
	defer g.Close()

	d := g.Enter(dashboard)
	assert.Equal(t, Wait, d.Verdict)
	assert.Empty(t, nav.all(), "nothing may be navigated while loading")

	src.set(session.AuthenticatedState(abc))
	assert.Equal(t, []string{dashboard}, nav.all())
	assert.Equal(t, []Decision{{Verdict: Wait}, {Verdict: Allow, Path: dashboard}}, decisions)
}

func TestGuard_WaitsThenRedirects(t *testing.T) {
	src := newFakeSource(session.LoadingState())
	nav := &recordingNav{}
	g := New(src, nav, NewPolicy(dashboard))
	defer g.Close()

	g.Enter(dashboard)
	src.set(session.AnonymousState())

	assert.Equal(t, []string{HomePath}, nav.all())
	assert.Equal(t, HomePath, g.View())
}

func TestGuard_RedirectsWhenSessionEndsMidVisit(t *testing.T) {
	src := newFakeSource(session.AuthenticatedState(abc))
	nav := &recordingNav{}
	g := New(src, nav, NewPolicy(dashboard))
	defer g.Close()

	require.Equal(t, Allow, g.Enter(dashboard).Verdict)

	src.set(session.AuthenticatedState(abc))
	src.set(session.AnonymousState())
	src.set(session.AnonymousState())

	assert.Equal(t, []string{dashboard, HomePath}, nav.all())
}

func TestGuard_AnonymousEnterRedirectsImmediately(t *testing.T) {
	src := newFakeSource(session.AnonymousState())
	nav := &recordingNav{}
	g := New(src, nav, NewPolicy(dashboard))
	defer g.Close()

	d := g.Enter(dashboard)
	assert.Equal(t, Decision{Verdict: Redirect, Path: HomePath}, d)
	assert.Equal(t, []string{HomePath}, nav.all())

	src.set(session.AuthenticatedState(abc))
	assert.Equal(t, []string{HomePath}, nav.all(), "home is public, a login does not navigate away from it")
}

func TestGuard_PublicViewStopsProtectedRedirects(t *testing.T) {
	src := newFakeSource(session.LoadingState())
	nav := &recordingNav{}
	g := New(src, nav, NewPolicy(dashboard))
	defer g.Close()

	g.Enter(dashboard)
	g.Enter("/login")
	src.set(session.AnonymousState())

	assert.Equal(t, []string{"/login"}, nav.all())
	assert.Equal(t, "/login", g.View())
}

func TestGuard_Close(t *testing.T) {
	src := newFakeSource(session.LoadingState())
	nav := &recordingNav{}
	g := New(src, nav, NewPolicy(dashboard))

	g.Enter(dashboard)
	require.Equal(t, 1, src.subscribers())
	g.Close()
	g.Close()
	assert.Zero(t, src.subscribers())
	assert.Empty(t, g.View())

	src.set(session.AnonymousState())
	assert.Empty(t, nav.all())
}

func TestGuard_NavigatorMayReenter(t *testing.T) {
	src := newFakeSource(session.AnonymousState())
	var g *Guard
	var paths []string
	nav := NavigatorFunc(func(path string) {
		paths = append(paths, path)
		if path == HomePath {
			g.Enter("/login")
		}
	})
	g = New(src, nav, NewPolicy(dashboard))
	defer g.Close()

	g.Enter(dashboard)
	assert.Equal(t, []string{HomePath, "/login"}, paths)
	assert.Equal(t, "/login", g.View())
}

// ---- with a real session machine ----

type stubClient struct {
	checkErr  error
	submitRet models.User
}

func (s *stubClient) CheckSession(context.Context) (models.User, error) {
	return models.User{}, s.checkErr
}

func (s *stubClient) SubmitCredentials(context.Context, client.Kind, client.Credentials) (models.User, error) {
	return s.submitRet, nil
}

func (s *stubClient) EndSession(context.Context) error { return client.ErrUnavailable }

func (s *stubClient) ListUsers(context.Context) ([]models.User, error) { return nil, nil }

func (s *stubClient) RandomImage(context.Context) (client.Image, error) {
	return client.Image{}, nil
}

func (s *stubClient) Close() error { return nil }

func TestGuard_WithMachine_LoginLogoutCycle(t *testing.T) {
	ctx := context.Background()
	m := session.New(&stubClient{checkErr: client.ErrNoSession, submitRet: abc})
	nav := &recordingNav{}
	g := New(m, nav, NewPolicy(dashboard))
	defer g.Close()

	assert.Equal(t, Wait, g.Enter(dashboard).Verdict)

	m.Bootstrap(ctx)
	assert.Equal(t, []string{HomePath}, nav.all())

	var d validator.Draft
	d.SetUsername("abc")
	d.SetPassword("abcde")
	require.NoError(t, m.Login(ctx, d))

	assert.Equal(t, Allow, g.Enter(dashboard).Verdict)

	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, []string{HomePath, dashboard, HomePath}, nav.all())
	assert.Equal(t, session.AnonymousState(), m.Current())
}
