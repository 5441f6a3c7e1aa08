// Package chat implements the real-time chat transport: one WebSocket
// channel per conversation, exposed as a small state machine and an ordered
// message stream.
//
// A Channel moves Connecting -> Open -> Closed. A transport failure passes
// through Errored on the way to Closed; Errored is never a resting state and
// the channel is not reconnected. Inbound text frames are delivered on
// Messages() in the order they were read, and the reader stops reading while
// that buffer is full.
//
// Manager keeps at most one channel per conversation id and closes the
// previous channel before attaching a new one.
package chat
