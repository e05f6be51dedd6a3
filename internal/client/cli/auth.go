package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophsession/internal/client/session"
	"github.com/dmitrijs2005/gophsession/internal/shared"
	"github.com/dmitrijs2005/gophsession/internal/validator"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register opens the register form, prompts for the fields and submits them.
func (a *App) Register(ctx context.Context) error {
	return a.submitForm(ctx, pathRegister, a.machine.Register)
}

// Login opens the login form, prompts for the fields and submits them.
func (a *App) Login(ctx context.Context) error {
	return a.submitForm(ctx, pathLogin, a.machine.Login)
}

// submitForm fills the draft of the form at path and submits a copy of it.
//
// Each field is validated as soon as it is entered and the verdict printed.
// An empty username answer keeps the one from the previous attempt. Nothing
// is sent unless both fields pass. A rejected draft is kept for the next
// attempt; a successful one is discarded.
func (a *App) submitForm(ctx context.Context, path string, submit func(context.Context, validator.Draft) error) error {
	if st := a.machine.Current(); st.IsAuthenticated() {
		a.println("You are already logged in as", st.User.Username+".")
		return session.ErrAlreadyAuthenticated
	}

	a.guard.Enter(path)
	draft := a.draft(path)

	prompt := "Username"
	if draft.Username != "" {
		prompt = fmt.Sprintf("Username [%s]", draft.Username)
	}
	name, err := getSimpleText(a.scanner, prompt, a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = draft.Username
	}
	if v := draft.SetUsername(name); !v.OK() {
		a.println("  ", v.String())
	}

	password, err := getPassword(a.scanner, a.out)
	if err != nil {
		return err
	}
	if v := draft.SetPassword(string(password)); !v.OK() {
		a.println("  ", v.String())
	}
	shared.WipeByteArray(password)

	a.storeDraft(path, draft)

	if !draft.Ready() {
		a.println("Please correct the fields above and try again.")
		return session.ErrInvalidDraft
	}

	err = submit(ctx, draft)
	switch {
	case err == nil:
		a.clearDraft(path)
		if a.currentPath() == pathDashboard {
			_ = a.Users(ctx)
		}
	case errors.Is(err, session.ErrInFlight):
		a.println("A submission is already in progress.")
	case errors.Is(err, session.ErrSuperseded):
		a.println("The session changed while submitting; please try again.")
	case errors.Is(err, session.ErrAlreadyAuthenticated):
		a.clearDraft(path)
		a.println("You are already logged in as", a.machine.Current().User.Username+".")
	}
	return err
}

// draft returns a copy of the draft for path.
func (a *App) draft(path string) validator.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.drafts[path]; ok {
		return *d
	}
	return validator.Draft{}
}

// storeDraft saves d only while the form at path is still the visible view.
func (a *App) storeDraft(path string, d validator.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.path != path {
		return
	}
	a.drafts[path] = &d
}

func (a *App) clearDraft(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d, ok := a.drafts[path]; ok {
		d.Clear()
		delete(a.drafts, path)
	}
}

// Logout ends the session. The local session is cleared even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.machine.Logout(ctx)
	switch {
	case err == nil:
		a.println("Logged out.")
	case errors.Is(err, session.ErrNotAuthenticated):
		a.println("You are not logged in.")
	case errors.Is(err, session.ErrInFlight):
		a.println("Logout already in progress.")
	}
	return err
}

// WhoAmI prints the session state.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.machine.Current()
	switch st.Kind {
	case session.Authenticated:
		a.println(fmt.Sprintf("Logged in as %s (id %s)", st.User.Username, st.User.UserID))
	case session.Loading:
		a.println("Still checking your session...")
	default:
		a.println("Not logged in.")
	}
	return nil
}
