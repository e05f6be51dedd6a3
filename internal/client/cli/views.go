package cli

// Navigate switches the visible view and renders it. Leaving a form view
// discards its draft.
func (a *App) Navigate(path string) {
	a.mu.Lock()
	prev := a.path
	if prev != path {
		delete(a.drafts, prev)
	}
	a.path = path
	a.mu.Unlock()

	a.render(path)
}

func (a *App) render(path string) {
	switch path {
	case pathHome:
		a.println("== Home ==")
		if a.isLoggedIn() {
			a.println("You are logged in. Type 'dashboard' to continue.")
		} else {
			a.println("Please 'login' or 'register' to see the dashboard.")
		}
	case pathLogin:
		a.println("== Log in ==")
	case pathRegister:
		a.println("== Register ==")
	case pathDashboard:
		st := a.machine.Current()
		a.println("== Dashboard ==")
		a.println("Hello,", st.User.Username+"!")
		a.println("Commands: users, image, logout")
	default:
		a.println("Page not found:", path)
	}
}
