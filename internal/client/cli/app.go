package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/client/client"
	"github.com/dmitrijs2005/jobportal/internal/client/config"
	"github.com/dmitrijs2005/jobportal/internal/client/router"
	"github.com/dmitrijs2005/jobportal/internal/client/services"
	"github.com/dmitrijs2005/jobportal/internal/client/session"
	"github.com/dmitrijs2005/jobportal/internal/client/verifier"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	logger logging.Logger

	store     *session.Store
	router    *router.Router
	verifyAPI verifier.SessionAPI

	authService        services.AuthService
	jobService         services.JobService
	applicationService services.ApplicationService
	paymentService     services.PaymentService

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.RWMutex
	mode   Mode

	closers []io.Closer
}

// NewApp opens the state database and wires the HTTP client, the session
// store and the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, c.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	serverURL, err := url.Parse(c.ServerURL)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("bad server url: %w", err)
	}

	jar, err := client.NewPersistentJar(ctx, serverURL, repos.Metadata, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerURL, jar, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	health, err := client.NewHealthChecker(c.HealthAddr)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	store := session.NewStore(ctx, api, session.NewKVPersister(repos.Metadata), logger)

	a := &App{
		config:             c,
		logger:             logger.With("module", "cli"),
		store:              store,
		router:             router.New("/"),
		verifyAPI:          api,
		authService:        services.NewAuthService(api, store, health, jar, logger),
		jobService:         services.NewJobService(api, store),
		applicationService: services.NewApplicationService(api, c.DownloadDir),
		paymentService:     services.NewPaymentService(api, store, c.DownloadDir, logger),
		reader:             bufio.NewReader(os.Stdin),
		out:                os.Stdout,
		closers:            []io.Closer{health, repos},
	}
	return a, nil
}

// Run settles the session, starts the connectivity watcher and blocks in
// the REPL until the user quits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the job portal CLI (type 'help' for commands)")

	a.store.Initialize(ctx)
	if u := a.store.User(); u != nil {
		printlnFn("Signed in as", u.DisplayName())
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.store.User() != nil
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

// Notify shows a guard notice to the user.
func (a *App) Notify(msg string) {
	printlnFn("!", msg)
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.User(); u != nil {
		s = u.Email + " " + string(u.Role)
		if p := u.PlanName(); p != "" {
			s += "/" + string(p)
		}
		s += " "
	}
	if m := a.Mode(); m != "" {
		s += string(m) + " "
	}
	return fmt.Sprintf("(%s%s)", s, a.router.Current())
}
