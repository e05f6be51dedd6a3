// Package session owns the client-side authentication state.
//
// A Machine starts in Loading, resolves once through Bootstrap, and then
// alternates between Anonymous and Authenticated as the user logs in, registers
// and logs out. It is the only writer of the state; everything else observes it
// through Current or Subscribe.
package session

import (
	"fmt"

	"github.com/dmitrijs2005/gophsession/internal/client/models"
)

// Kind tags the variant of a State.
type Kind int

const (
	Loading Kind = iota
	Anonymous
	Authenticated
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is a snapshot of the session. User is set only when Kind is
// Authenticated.
type State struct {
	Kind Kind
	User models.User
}

func LoadingState() State   { return State{Kind: Loading} }
func AnonymousState() State { return State{Kind: Anonymous} }

func AuthenticatedState(u models.User) State {
	return State{Kind: Authenticated, User: u}
}

func (s State) IsLoading() bool       { return s.Kind == Loading }
func (s State) IsAuthenticated() bool { return s.Kind == Authenticated }

func (s State) String() string {
	if s.Kind == Authenticated {
		return fmt.Sprintf("authenticated as %s", s.User.Username)
	}
	return s.Kind.String()
}
