package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/connectin/internal/client/chat"
	"github.com/dmitrijs2005/connectin/internal/client/models"
)

const leaveCommand = "/leave"

// Chat attaches to a conversation and relays lines from sc until the user
// types /leave, input ends, or the channel closes.
func (a *App) Chat(ctx context.Context, args []string, sc *bufio.Scanner) error {
	if len(args) != 1 {
		printlnFn("Usage: chat <conversationId>")
		return nil
	}
	id := args[0]

	ch, err := a.chats.Attach(ctx, id)
	if err != nil {
		printlnFn("Cannot open chat:", err)
		return err
	}
	defer a.chats.Detach(id)

	printlnFn(fmt.Sprintf("Joined %s, type %s to go back", id, leaveCommand))

	relayed := make(chan struct{})
	go func() {
		defer close(relayed)
		ch.Each(func(m models.Message) {
			printlnFn("<", m.Text)
		})
	}()

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == leaveCommand {
			break
		}
		if line == "" {
			continue
		}
		if err := ch.Send(line); err != nil {
			if errors.Is(err, chat.ErrNotOpen) && ch.State() == chat.Closed {
				printlnFn("Chat closed")
				break
			}
			printlnFn("Not sent:", err)
		}
	}

	_ = ch.Close()
	<-relayed
	return ch.Err()
}
