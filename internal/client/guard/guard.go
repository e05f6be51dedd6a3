package guard

import (
	"sync"

	"github.com/dmitrijs2005/gophsession/internal/client/session"
)

// Navigator switches the visible view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Source is the part of session.Machine the guard observes.
type Source interface {
	Current() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
}

// Guard holds the view the user asked for and re-evaluates it on every state
// change. Allow navigates to the view, Redirect navigates home, Wait only
// reports the decision so the caller can show a placeholder.
type Guard struct {
	policy     Policy
	nav        Navigator
	src        Source
	onDecision func(view string, d Decision)

	mu    sync.Mutex
	view  string
	last  Decision
	fresh bool
	unsub func()
}

type Option func(*Guard)

// WithOnDecision registers a callback invoked for every new decision,
// including Wait.
func WithOnDecision(fn func(view string, d Decision)) Option {
	return func(g *Guard) { g.onDecision = fn }
}

// New subscribes to src. Nothing is navigated until Enter is called.
func New(src Source, nav Navigator, policy Policy, opts ...Option) *Guard {
	g := &Guard{
		policy:     policy,
		nav:        nav,
		src:        src,
		onDecision: func(string, Decision) {},
	}
	for _, o := range opts {
		o(g)
	}
	g.unsub = src.Subscribe(g.stateChanged)
	return g
}

// Enter requests view and acts on the decision for the current state.
func (g *Guard) Enter(view string) Decision {
	g.mu.Lock()
	g.view = view
	g.fresh = true
	d, act := g.evaluate(g.src.Current())
	g.mu.Unlock()

	act()
	return d
}

// View returns the view currently requested.
func (g *Guard) View() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view
}

// Close stops observing the session.
func (g *Guard) Close() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.view = ""
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Guard) stateChanged(st session.State) {
	g.mu.Lock()
	if g.view == "" {
		g.mu.Unlock()
		return
	}
	_, act := g.evaluate(st)
	g.mu.Unlock()

	act()
}

// evaluate must be called with g.mu held. The returned action runs the side
// effects and must be called after unlocking. A decision equal to the previous
// one for the same view is not acted on again.
func (g *Guard) evaluate(st session.State) (Decision, func()) {
	view := g.view
	d := g.policy.Decide(view, st)

	if !g.fresh && d == g.last {
		return d, func() {}
	}
	g.fresh = false
	g.last = d

	if d.Verdict == Redirect {
		g.view = d.Path
		g.last = Decision{Verdict: Allow, Path: d.Path}
	}

	return d, func() {
		g.onDecision(view, d)
		if d.Verdict != Wait {
			g.nav.Navigate(d.Path)
		}
	}
}
