package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	List(ctx context.Context, resource string) error
	Show(ctx context.Context, resource string) error
	Delete(ctx context.Context, resource string) error
	NewProject(ctx context.Context) error
	Browse(ctx context.Context, resource string) error
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root starts the REPL on stdin and blocks until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to PanelDesk CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL is a simple read–eval–print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help              — show available commands
//	  - login             — authenticate
//	  - ping              — probe backend reachability
//	  - exit | quit       — leave the program
//
//	Logged in:
//	  - help              — show available commands
//	  - list <resource>   — list records of a collection
//	  - show <resource>   — show a single record (interactive ID prompt)
//	  - delete <resource> — delete a record (interactive ID prompt)
//	  - new               — create a project with attachments
//	  - browse <resource> — full-screen interactive browser
//	  - logout            — log out
//	  - exit | quit       — leave the program
//
// Any errors returned by command handlers are printed here, keeping the loop
// itself resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pd%s> ", statusFn()))
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

		resource := ""
		if len(args) > 0 {
			resource = args[0]
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show, delete, new, browse, logout, ping, exit")
			} else {
				printlnFn("Available commands: login, ping, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "ping":
			err = a.Ping(ctx)

		case "l", "list":
			err = a.List(ctx, resource)

		case "show":
			err = a.Show(ctx, resource)

		case "delete":
			err = a.Delete(ctx, resource)

		case "new":
			err = a.NewProject(ctx)

		case "browse":
			err = a.Browse(ctx, resource)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
