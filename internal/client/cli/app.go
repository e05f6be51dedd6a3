package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/client/config"
	"github.com/dmitrijs2005/gophsession/internal/client/guard"
	"github.com/dmitrijs2005/gophsession/internal/client/session"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/validator"
)

const (
	pathHome      = guard.HomePath
	pathLogin     = "/login"
	pathRegister  = "/register"
	pathDashboard = "/dashboard"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	client  client.Client
	machine *session.Machine
	guard   *guard.Guard
	scanner *bufio.Scanner
	out     io.Writer

	mu     sync.Mutex
	path   string
	drafts map[string]*validator.Draft

	wasAuthenticated atomic.Bool
	unsub            func()
}

// NewApp builds the app on top of the real HTTP client, reading stdin and
// writing to stdout. Logs go to stderr.
func NewApp(c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	apiClient, err := client.NewHTTPClient(client.Options{
		BaseURL:    c.ServerBaseURL,
		Origin:     c.Origin,
		Timeout:    c.RequestTimeout,
		Retries:    c.BootstrapRetries,
		RetryDelay: c.RetryDelay,
	})
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, log, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, apiClient client.Client, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		log:     log,
		client:  apiClient,
		scanner: bufio.NewScanner(in),
		out:     out,
		drafts:  map[string]*validator.Draft{},
	}

	a.machine = session.New(apiClient, session.WithLogger(log), session.WithNotifier(a))
	a.guard = guard.New(a.machine, a, guard.NewPolicy(pathDashboard), guard.WithOnDecision(a.onDecision))
	a.unsub = a.machine.Subscribe(a.sessionChanged)
	return a
}

// Run checks the stored session in the background, opens the dashboard and
// serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to gophsession (type 'help' for commands)")

	booted := make(chan struct{})
	go func() {
		defer close(booted)
		a.machine.Bootstrap(ctx)
	}()

	a.guard.Enter(pathDashboard)
	runREPL(ctx, a, a.getStatus, a.scanner)

	<-booted
}

// Close detaches from the session and releases the HTTP client.
func (a *App) Close() {
	if a.unsub != nil {
		a.unsub()
	}
	a.guard.Close()
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "close client", "error", err)
	}
}

// sessionChanged sends the user to the dashboard right after logging in.
func (a *App) sessionChanged(st session.State) {
	was := a.wasAuthenticated.Swap(st.IsAuthenticated())
	if st.IsAuthenticated() && !was && a.guard.View() != pathDashboard {
		a.guard.Enter(pathDashboard)
	}
}

// Notify prints session notices.
func (a *App) Notify(n session.Notice) {
	switch n.Kind {
	case session.NoticeConfig:
		a.println("[configuration error]", n.Message)
	case session.NoticeRejected:
		a.println("!", n.Message)
	default:
		a.println("[error]", n.Message)
	}
}

func (a *App) onDecision(view string, d guard.Decision) {
	if d.Verdict == guard.Wait {
		a.println("Checking your session, please wait...")
	}
}

func (a *App) isLoggedIn() bool {
	return a.machine.Current().IsAuthenticated()
}

func (a *App) currentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *App) getStatus() string {
	path := a.currentPath()
	if path == "" {
		path = "-"
	}
	st := a.machine.Current()
	switch st.Kind {
	case session.Authenticated:
		return fmt.Sprintf("%s (%s)", path, st.User.Username)
	default:
		return fmt.Sprintf("%s (%s)", path, st.Kind)
	}
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
