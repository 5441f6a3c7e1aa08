package chat

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/client/notify"
	"github.com/dmitrijs2005/connectin/internal/common"
	"github.com/dmitrijs2005/connectin/internal/logging"
	"github.com/gorilla/websocket"
)

// Channel is one physical connection bound to one conversation.
type Channel struct {
	id             string
	conversationID string
	t              *Transport
	log            logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	state          State
	conn           *websocket.Conn
	err            error
	closeRequested bool

	writeMu   sync.Mutex
	closeOnce sync.Once

	messages chan models.Message
	done     chan struct{}
	seq      uint64
}

func (c *Channel) ID() string             { return c.id }
func (c *Channel) ConversationID() string { return c.conversationID }

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the transport error that ended the channel, or nil after a normal
// close. It is only meaningful once Done is closed.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Messages delivers inbound messages in receipt order. It is closed when the
// channel reaches Closed.
func (c *Channel) Messages() <-chan models.Message { return c.messages }

// Done is closed once the channel reaches Closed.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Each calls fn for every inbound message, one at a time, until the channel
// closes.
func (c *Channel) Each(fn func(models.Message)) {
	for m := range c.messages {
		fn(m)
	}
}

// Send writes one text frame. It fails with ErrNotOpen unless the channel is
// Open.
func (c *Channel) Send(text string) error {
	c.mu.Lock()
	state, conn, closing := c.state, c.conn, c.closeRequested
	c.mu.Unlock()

	if state != Open || conn == nil || closing {
		return fmt.Errorf("send: %w (state %s)", ErrNotOpen, state)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(c.t.writeWait)); err != nil {
		return fmt.Errorf("send: %w: %w", common.ErrTransport, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("send: %w: %w", common.ErrTransport, err)
	}
	return nil
}

// Close ends the channel and waits until it is Closed. It sends a normal
// close frame when connected and gives the peer closeWait to answer. Safe to
// call more than once.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closeRequested = true
		conn := c.conn
		c.mu.Unlock()

		if conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.t.writeWait))

			timer := time.NewTimer(c.t.closeWait)
			select {
			case <-c.done:
			case <-timer.C:
			}
			timer.Stop()
		}
		c.cancel()
	})
	<-c.done
	return nil
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.t.stateChanged(c, s)
}

func (c *Channel) run(endpoint string, header http.Header) {
	conn, resp, err := c.t.dialer.DialContext(c.ctx, endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if c.stopping() {
			c.finish(nil)
			return
		}
		if resp != nil {
			err = fmt.Errorf("dial: status %d: %w", resp.StatusCode, err)
		} else {
			err = fmt.Errorf("dial: %w", err)
		}
		c.finish(err)
		return
	}

	c.mu.Lock()
	if c.closeRequested {
		c.mu.Unlock()
		_ = conn.Close()
		c.finish(nil)
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.setState(Open)
	c.t.metrics.ChannelOpened()
	c.log.Info(c.ctx, "chat channel open")

	go c.keepalive(conn)
	c.finish(c.read(conn))
}

// stopping reports whether the channel is being shut down on purpose.
func (c *Channel) stopping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeRequested || c.ctx.Err() != nil
}

func (c *Channel) pongWait() time.Duration {
	return 3 * c.t.pingInterval
}

func (c *Channel) extendDeadline(conn *websocket.Conn) error {
	if c.t.pingInterval <= 0 {
		return nil
	}
	return conn.SetReadDeadline(time.Now().Add(c.pongWait()))
}

// read pumps frames into messages until the connection ends. It returns nil
// for a normal close.
func (c *Channel) read(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	if err := c.extendDeadline(conn); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error { return c.extendDeadline(conn) })

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.stopping() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		_ = c.extendDeadline(conn)

		if c.State() != Open || c.stopping() {
			c.t.metrics.MessageDropped()
			continue
		}

		c.seq++
		msg := models.Message{
			ConversationID: c.conversationID,
			ChannelID:      c.id,
			Seq:            c.seq,
			Text:           string(data),
			ReceivedAt:     time.Now(),
		}

		select {
		case c.messages <- msg:
			c.t.metrics.MessageReceived()
		case <-c.ctx.Done():
			return nil
		}
	}
}

// keepalive pings the peer and tears the connection down when ctx ends.
func (c *Channel) keepalive(conn *websocket.Conn) {
	var tick <-chan time.Time
	if c.t.pingInterval > 0 {
		ticker := time.NewTicker(c.t.pingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-c.done:
			return
		case <-c.ctx.Done():
			_ = conn.Close()
			return
		case <-tick:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.t.writeWait)); err != nil {
				c.log.Debug(c.ctx, "ping failed", "error", err)
				return
			}
		}
	}
}

// finish moves the channel to Closed, passing through Errored when err is
// not nil, and releases everything it holds.
func (c *Channel) finish(err error) {
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", common.ErrTransport, err)
		c.mu.Lock()
		c.err = wrapped
		c.mu.Unlock()

		c.setState(Errored)
		c.t.metrics.ChannelErrored()
		c.log.Error(c.ctx, "chat channel failed", "error", err)
		c.t.sink.Notify(c.ctx, notify.Notification{
			Kind:    notify.Error,
			Source:  source,
			Message: "chat connection lost",
			Err:     wrapped,
		})
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}

	c.setState(Closed)
	c.log.Info(c.ctx, "chat channel closed")
	close(c.messages)
	close(c.done)
	c.cancel()
}
