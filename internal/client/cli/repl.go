package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, sc *bufio.Scanner) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Project(ctx context.Context, args []string) error
	Hydrate(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Votes(ctx context.Context) error
	Vote(ctx context.Context, args []string, isUpvote bool) error
	Chat(ctx context.Context, args []string, sc *bufio.Scanner) error
	Metrics(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, whoami, project <id>, hydrate <id...>, status <id>, votes, metrics, exit"
	helpLoggedIn  = "Available commands: project <id>, hydrate <id...>, status <id>, votes, up <id>, down <id>, chat <conversationId>, whoami, metrics, logout, exit"
)

// runREPL starts a read–eval–print loop for the Connectin CLI.
//
// It reads a line from the scanner, parses the first token as the command
// and the rest as arguments, and dispatches to methods on 'a'. The loop exits
// on scanner EOF, when ctx ends, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("connectin %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx, scanner)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "project":
			_ = a.Project(ctx, args)

		case "hydrate":
			_ = a.Hydrate(ctx, args)

		case "status":
			_ = a.Status(ctx, args)

		case "votes":
			_ = a.Votes(ctx)

		case "up":
			_ = a.Vote(ctx, args, true)

		case "down":
			_ = a.Vote(ctx, args, false)

		case "chat":
			_ = a.Chat(ctx, args, scanner)

		case "metrics":
			_ = a.Metrics(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
