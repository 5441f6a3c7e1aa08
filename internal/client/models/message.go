package models

import "time"

// Message is one inbound chat frame.
//
// Seq is the local receipt ordinal within a channel, starting at 1. It is
// informational: messages are delivered in receipt order and never re-sequenced.
type Message struct {
	ConversationID string
	ChannelID      string
	Seq            uint64
	Text           string
	ReceivedAt     time.Time
}
