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
	isInitialized() bool
	isUnlocked() bool
	Setup(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, label string) error
	Gen(ctx context.Context, label string) error
	Bump(ctx context.Context, label string) error
	Delete(ctx context.Context, label string) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the SitePass CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Locked:
//   - help           — show available commands
//   - setup          — first-run installation setup
//   - unlock         — verify the master secret
//   - exit | quit    — leave the program
//
// Unlocked:
//   - help           — show available commands
//   - add            — create or edit a site profile
//   - list | l       — list site profiles
//   - show <site>    — show one profile's policy
//   - gen <site>     — derive and print the site password
//   - bump <site>    — increment the revision counter (rotates the password)
//   - delete <site>  — remove a profile
//   - reset          — wipe the whole vault (confirmation required)
//   - lock           — discard the master secret
//   - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sp %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			switch {
			case !a.isInitialized():
				printlnFn("Available commands: setup, exit")
			case a.isUnlocked():
				printlnFn("Available commands: add, (l)ist, show <site>, gen <site>, bump <site>, delete <site>, reset, lock, exit")
			default:
				printlnFn("Available commands: unlock, exit")
			}

		case "setup":
			_ = a.Setup(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <site>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "gen":
			if len(args) == 0 {
				printlnFn("Usage: gen <site>")
				continue
			}
			_ = a.Gen(ctx, args[0])

		case "bump":
			if len(args) == 0 {
				printlnFn("Usage: bump <site>")
				continue
			}
			_ = a.Bump(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <site>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
