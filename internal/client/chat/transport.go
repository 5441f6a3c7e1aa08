package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/connectin/internal/client/credentials"
	"github.com/dmitrijs2005/connectin/internal/client/metrics"
	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/client/notify"
	"github.com/dmitrijs2005/connectin/internal/common"
	"github.com/dmitrijs2005/connectin/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	source = "chat"

	defaultBufferSize = 64
	defaultWriteWait  = 10 * time.Second
	defaultCloseWait  = time.Second
	maxMessageSize    = 64 * 1024
)

var ErrNotOpen = errors.New("channel is not open")

// Dialer opens the physical connection. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

type Transport struct {
	baseURL      string
	dialer       Dialer
	creds        credentials.Accessor
	sink         notify.Sink
	log          logging.Logger
	metrics      *metrics.Metrics
	bufferSize   int
	pingInterval time.Duration
	writeWait    time.Duration
	closeWait    time.Duration
	onState      func(*Channel, State)
}

type Option func(*Transport)

func WithDialer(d Dialer) Option {
	return func(t *Transport) { t.dialer = d }
}

// WithCredentials sends the current bearer token, when there is one, on the
// upgrade request.
func WithCredentials(a credentials.Accessor) Option {
	return func(t *Transport) { t.creds = a }
}

func WithSink(s notify.Sink) Option {
	return func(t *Transport) { t.sink = s }
}

func WithLogger(l logging.Logger) Option {
	return func(t *Transport) { t.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Transport) { t.metrics = m }
}

func WithBufferSize(n int) Option {
	return func(t *Transport) { t.bufferSize = n }
}

// WithPingInterval enables keepalive pings. A peer that stays silent for
// three intervals is considered gone.
func WithPingInterval(d time.Duration) Option {
	return func(t *Transport) { t.pingInterval = d }
}

// WithCloseWait bounds how long Close waits for the peer to answer the
// close frame.
func WithCloseWait(d time.Duration) Option {
	return func(t *Transport) { t.closeWait = d }
}

// WithStateHook registers fn to observe every state a channel enters, in
// transition order. Connecting is reported on the goroutine calling Open;
// later states are reported from the channel's own goroutine.
func WithStateHook(fn func(*Channel, State)) Option {
	return func(t *Transport) { t.onState = fn }
}

func NewTransport(baseURL string, opts ...Option) *Transport {
	t := &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		dialer:     websocket.DefaultDialer,
		sink:       notify.Discard,
		log:        logging.Discard(),
		bufferSize: defaultBufferSize,
		writeWait:  defaultWriteWait,
		closeWait:  defaultCloseWait,
	}
	for _, o := range opts {
		o(t)
	}
	if t.bufferSize < 1 {
		t.bufferSize = 1
	}
	return t
}

func (t *Transport) endpoint(conversationID string) string {
	return t.baseURL + "/chats/ws/" + url.PathEscape(conversationID)
}

// Open starts connecting a new channel for conversationID and returns it in
// the Connecting state. ctx bounds the lifetime of the channel. An empty id
// is rejected with common.ErrInvalidInput and nothing is dialed.
//
// Open never deduplicates: two calls open two physical connections.
func (t *Transport) Open(ctx context.Context, conversationID string) (*Channel, error) {
	if strings.TrimSpace(conversationID) == "" {
		t.log.Warn(ctx, "chat open rejected: empty conversation id")
		return nil, fmt.Errorf("open chat: %w: empty conversation id", common.ErrInvalidInput)
	}

	header := http.Header{}
	if t.creds != nil {
		if tok, ok := t.creds.CurrentToken(ctx); ok {
			header.Set(common.AuthorizationHeaderName, common.BearerPrefix+string(tok))
		}
	}

	cctx, cancel := context.WithCancel(ctx)
	c := &Channel{
		id:             uuid.NewString(),
		conversationID: conversationID,
		t:              t,
		ctx:            cctx,
		cancel:         cancel,
		state:          Connecting,
		messages:       make(chan models.Message, t.bufferSize),
		done:           make(chan struct{}),
	}
	c.log = t.log.With("conversation_id", conversationID, "channel_id", c.id)

	t.stateChanged(c, Connecting)
	go c.run(t.endpoint(conversationID), header)

	return c, nil
}

func (t *Transport) stateChanged(c *Channel, s State) {
	if t.onState != nil {
		t.onState(c, s)
	}
}
