// Package guard decides whether a requested view may be shown for the current
// session state, and keeps that decision up to date as the state changes.
package guard

import (
	"github.com/dmitrijs2005/gophsession/internal/client/session"
)

// HomePath is where anonymous visitors are sent from protected views.
const HomePath = "/"

type Verdict int

const (
	// Wait means the session is still loading: render a neutral placeholder
	// and decide again later. Neither Allow nor Redirect may be issued yet.
	Wait Verdict = iota
	Allow
	Redirect
)

func (v Verdict) String() string {
	switch v {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome for one view. Path is the view to show for Allow
// and the target for Redirect; it is empty for Wait.
type Decision struct {
	Verdict Verdict
	Path    string
}

// Decide returns the decision for a protected view.
func Decide(view string, st session.State) Decision {
	switch st.Kind {
	case session.Authenticated:
		return Decision{Verdict: Allow, Path: view}
	case session.Anonymous:
		return Decision{Verdict: Redirect, Path: HomePath}
	default:
		return Decision{Verdict: Wait}
	}
}

// Policy knows which views are protected.
type Policy struct {
	protected map[string]struct{}
}

func NewPolicy(protected ...string) Policy {
	p := Policy{protected: make(map[string]struct{}, len(protected))}
	for _, v := range protected {
		p.protected[v] = struct{}{}
	}
	return p
}

func (p Policy) Protected(view string) bool {
	_, ok := p.protected[view]
	return ok
}

// Decide allows public views unconditionally and defers to Decide for
// protected ones.
func (p Policy) Decide(view string, st session.State) Decision {
	if !p.Protected(view) {
		return Decision{Verdict: Allow, Path: view}
	}
	return Decide(view, st)
}
