package chat

import "fmt"

type State int32

const (
	Connecting State = iota
	Open
	Errored
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Errored:
		return "errored"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
