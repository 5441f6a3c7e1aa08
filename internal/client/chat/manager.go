package chat

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/connectin/internal/logging"
)

// Opener opens channels. *Transport satisfies it.
type Opener interface {
	Open(ctx context.Context, conversationID string) (*Channel, error)
}

// Manager owns the active channel of each conversation.
type Manager struct {
	opener Opener
	log    logging.Logger

	// attachMu serializes Attach, Detach and CloseAll so that a
	// conversation never has two live channels.
	attachMu sync.Mutex

	mu       sync.Mutex
	channels map[string]*Channel
}

func NewManager(opener Opener, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{opener: opener, log: log, channels: make(map[string]*Channel)}
}

// Attach opens a channel for conversationID, closing the conversation's
// previous channel first.
func (m *Manager) Attach(ctx context.Context, conversationID string) (*Channel, error) {
	m.attachMu.Lock()
	defer m.attachMu.Unlock()

	m.mu.Lock()
	prior := m.channels[conversationID]
	delete(m.channels, conversationID)
	m.mu.Unlock()

	if prior != nil {
		m.log.Debug(ctx, "closing previous chat channel", "conversation_id", conversationID, "channel_id", prior.ID())
		_ = prior.Close()
	}

	ch, err := m.opener.Open(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.channels[conversationID] = ch
	m.mu.Unlock()

	return ch, nil
}

// Detach closes and forgets the channel of conversationID.
func (m *Manager) Detach(conversationID string) {
	m.attachMu.Lock()
	defer m.attachMu.Unlock()

	m.mu.Lock()
	ch := m.channels[conversationID]
	delete(m.channels, conversationID)
	m.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
	}
}

// Active lists the conversation ids with a channel that is not Closed.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.channels))
	for id, ch := range m.channels {
		if ch.State() == Closed {
			delete(m.channels, id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) CloseAll() {
	m.attachMu.Lock()
	defer m.attachMu.Unlock()

	m.mu.Lock()
	all := m.channels
	m.channels = make(map[string]*Channel)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, ch := range all {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ch.Close()
		}()
	}
	wg.Wait()
}
