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
	isUnlocked() bool
	isInitialized() bool
	Init(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Add(ctx context.Context) error
	Update(ctx context.Context, id string) error
	Show(ctx context.Context, id string) error
	List(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Delete(ctx context.Context, id string) error
	AddCategory(ctx context.Context) error
	Categories(ctx context.Context) error
	Tree(ctx context.Context) error
	DeleteCategory(ctx context.Context, id string) error
	Gen(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the vault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers present
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vault [%s] > ", statusFn()))
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
				printlnFn("Available commands: init, exit")
			case a.isUnlocked():
				printlnFn("Available commands: add, show <id>, (l)ist, search <query>, update <id>, del <id>, addcat, cats, tree, delcat <id>, passwd, gen, lock, exit")
			default:
				printlnFn("Available commands: unlock, (l)ist, search <query>, cats, tree, exit")
			}

		case "init":
			_ = a.Init(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "add":
			_ = a.Add(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))

		case "update":
			if len(args) == 0 {
				printlnFn("Usage: update <id>")
				continue
			}
			_ = a.Update(ctx, args[0])

		case "del":
			if len(args) == 0 {
				printlnFn("Usage: del <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "addcat":
			_ = a.AddCategory(ctx)

		case "cats":
			_ = a.Categories(ctx)

		case "tree":
			_ = a.Tree(ctx)

		case "delcat":
			if len(args) == 0 {
				printlnFn("Usage: delcat <id>")
				continue
			}
			_ = a.DeleteCategory(ctx, args[0])

		case "gen":
			_ = a.Gen(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
