package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Keygen(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, uid string) error
	Get(ctx context.Context, uid string, args []string) error
	Upload(ctx context.Context) error
	Edit(ctx context.Context, uid string) error
	Delete(ctx context.Context, uids []string) error
	Note(ctx context.Context) error
	EditNote(ctx context.Context, uid string) error
	Forget(ctx context.Context) error
}

const helpLocked = `Available commands:
  login              enter the vault key
  keygen [-p]        generate a key (-p: derive it from a passphrase)
  forget             remove the saved key
  exit | quit        leave the program`

const helpUnlocked = `Available commands:
  sync               reload the record index
  list [kind]        list records (note, video, image, book, file)
  show <uid>         show a record
  get <uid> [thumb]  download the decrypted file or thumbnail
  upload             upload a media file
  edit <uid>         change title, description or thumbnail
  delete <uid>...    delete records
  note               create a note
  editnote <uid>     replace a note's content
  login              switch to another key
  keygen [-p]        generate a key
  forget             remove the saved key
  exit | quit        leave the program`

// needsSession lists the commands that only work after a key is verified.
var needsSession = map[string]bool{
	"sync": true, "list": true, "l": true, "show": true, "get": true,
	"upload": true, "edit": true, "delete": true, "note": true, "editnote": true,
}

// runREPL starts a simple read–eval–print loop for the MediaVault CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit". Handler errors are reported through reportErr and
// never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mv %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsSession[cmd] && !a.isLoggedIn() {
			printlnFn("Not logged in. Use 'login' first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUnlocked)
			} else {
				printlnFn(helpLocked)
			}

		case "login":
			reportErr(a.Login(ctx))

		case "keygen":
			reportErr(a.Keygen(ctx, args))

		case "sync":
			reportErr(a.Sync(ctx))

		case "l", "list":
			reportErr(a.List(ctx, args))

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <uid>")
				continue
			}
			reportErr(a.Show(ctx, args[0]))

		case "get":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: get <uid> [thumb]")
				continue
			}
			reportErr(a.Get(ctx, args[0], args[1:]))

		case "upload":
			reportErr(a.Upload(ctx))

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <uid>")
				continue
			}
			reportErr(a.Edit(ctx, args[0]))

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <uid>...")
				continue
			}
			reportErr(a.Delete(ctx, args))

		case "note":
			reportErr(a.Note(ctx))

		case "editnote":
			if len(args) != 1 {
				printlnFn("Usage: editnote <uid>")
				continue
			}
			reportErr(a.EditNote(ctx, args[0]))

		case "forget":
			reportErr(a.Forget(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// reportErr prints a handler error. Network problems are worth retrying,
// everything else is not.
func reportErr(err error) {
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		printlnFn("Cancelled.")
	case errors.Is(err, client.ErrNetworkFailure):
		printlnFn("Network problem, try again:", err)
	case errors.Is(err, vault.ErrRecordNotFound):
		printlnFn("No such record:", err)
	case errors.Is(err, vault.ErrSessionNotVerified):
		printlnFn("Not logged in. Use 'login' first.")
	default:
		printlnFn("Error:", err)
	}
}
