package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/connectin/internal/client/chat"
	"github.com/dmitrijs2005/connectin/internal/client/client"
	"github.com/dmitrijs2005/connectin/internal/client/config"
	"github.com/dmitrijs2005/connectin/internal/client/credentials"
	"github.com/dmitrijs2005/connectin/internal/client/metrics"
	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/client/notify"
	"github.com/dmitrijs2005/connectin/internal/client/services"
	"github.com/dmitrijs2005/connectin/internal/client/votes"
	"github.com/dmitrijs2005/connectin/internal/logging"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// voteStore is the part of *votes.Store the commands use.
type voteStore interface {
	InitializeVoteState(ctx context.Context, projectIDs []int64) error
	VoteProject(ctx context.Context, projectID int64, isUpvote bool) (models.VoteEntry, error)
	GetVoteStatus(projectID int64) models.VoteEntry
	Snapshot() []models.VoteSnapshot
	Reset()
}

// chatManager is the part of *chat.Manager the commands use.
type chatManager interface {
	Attach(ctx context.Context, conversationID string) (*chat.Channel, error)
	Detach(conversationID string)
	Active() []string
	CloseAll()
}

type projectGetter interface {
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
}

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	projects    projectGetter
	authService services.AuthService
	votes       voteStore
	chats       chatManager
	gatherer    prometheus.Gatherer

	in  io.Reader
	out io.Writer

	mu       sync.RWMutex
	mode     Mode
	userName string
}

// NewApp wires storage, the REST client, both engines and the services
// from configuration.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log, err := logging.New(os.Stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.SessionDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, log.With("component", "api"))
	creds := credentials.NewStore(db)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	sink := notify.Multi(notify.LogSink{Log: log}, notify.NewWriterSink(os.Stdout))

	store := votes.NewStore(api, creds,
		votes.WithSink(sink),
		votes.WithLogger(log.With("component", "votes")),
		votes.WithMetrics(m),
		votes.WithVoteTimeout(c.VoteTimeout),
		votes.WithHydrationTTL(c.HydrationTTL),
		votes.WithHydrationConcurrency(c.HydrationConcurrency),
	)

	dialer := &websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: c.RequestTimeout,
	}
	transport := chat.NewTransport(c.WSBaseURL,
		chat.WithDialer(dialer),
		chat.WithCredentials(creds),
		chat.WithSink(sink),
		chat.WithLogger(log.With("component", "chat")),
		chat.WithMetrics(m),
		chat.WithBufferSize(c.ChatBufferSize),
		chat.WithPingInterval(c.ChatPingInterval),
		chat.WithCloseWait(c.ChatCloseWait),
	)
	chats := chat.NewManager(transport, log.With("component", "chat"))

	as := services.NewAuthService(api, creds, store.Reset, chats.CloseAll)

	app := &App{
		config:      c,
		log:         log,
		db:          db,
		projects:    api,
		authService: as,
		votes:       store,
		chats:       chats,
		gatherer:    registry,
		in:          os.Stdin,
		out:         os.Stdout,
	}
	if name, ok := as.WhoAmI(ctx); ok {
		app.userName = name
	}
	return app, nil
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", string(mode))
	}
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName != ""
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits or ctx ends. Open chats are closed and the database released on
// return.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	printlnFn("Welcome to Connectin CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.in))
}

func (a *App) close() {
	if a.chats != nil {
		if open := a.chats.Active(); len(open) > 0 {
			a.log.Info(context.Background(), "closing chat channels", "conversations", open)
		}
		a.chats.CloseAll()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// checkOnline pings the API once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
