package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Home(ctx context.Context) error   { f.calls = append(f.calls, "home"); return nil }
func (f *fakeExec) Dashboard(ctx context.Context) error {
	f.calls = append(f.calls, "dashboard")
	return nil
}
func (f *fakeExec) Users(ctx context.Context) error { f.calls = append(f.calls, "users"); return nil }
func (f *fakeExec) Image(ctx context.Context) error { f.calls = append(f.calls, "image"); return nil }

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"dashboard",
		"users",
		"image extra args",
		"whoami",
		"home",
		"logout",
		"register",
		"foobar",
		"exit",
		"login",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"login", "dashboard", "users", "image", "whoami", "home", "logout", "register"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := silencePrintln(t)

	sc := bufio.NewScanner(strings.NewReader("help\nquit\n"))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "s" }, sc)

	joined := strings.Join(*lines, "\n")
	if !strings.Contains(joined, "logout") || strings.Contains(joined, "register") {
		t.Fatalf("unexpected help for logged in user: %q", joined)
	}
}

func TestRunREPL_UnknownAndEmptyLines(t *testing.T) {
	lines := silencePrintln(t)

	sc := bufio.NewScanner(strings.NewReader("\n   \nget 42\n"))
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	if !strings.Contains(strings.Join(*lines, "\n"), "Unknown command: get") {
		t.Fatalf("unknown command not reported: %v", *lines)
	}
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	silencePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("login\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
