package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/retouch/internal/input"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/ui"
)

// editCmd opens the mask editor window.
type editCmd struct {
	*root
	fs *flag.FlagSet
	imageFlags
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *editCmd) Program() string {
	return e.root.Program() + " edit"
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	e := &editCmd{root: r}
	fs := newEditFlags(e)
	e.fs = fs
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: e}
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func newEditFlags(e *editCmd) *flag.FlagSet {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e.register(fs)
	fs.Usage = usageFunc(e)
	return fs
}

// runEditorFn is replaced in tests.
var runEditorFn = func(ed *ui.Editor) error { return ed.Run() }

func (e *editCmd) Run() error {
	ctx := context.Background()
	var ed *ui.Editor
	sess := e.newSession(func() {
		if ed != nil {
			ed.Changed()
		}
	})
	if err := e.open(ctx, sess, &e.imageFlags); err != nil {
		return err
	}

	dest := e.destinations(&e.imageFlags)
	exported := false
	disp := input.New(sess,
		input.WithDone(func() error {
			if err := sess.Close(ctx, dest.sink); err != nil {
				return err
			}
			exported = true
			return nil
		}),
	)
	ed = ui.New(disp,
		ui.WithTheme(e.activeTheme),
		ui.WithTitle("Retouch - "+e.processed),
	)
	err := runEditorFn(ed)
	if sess.State() == session.Editing {
		_ = sess.Close(ctx, nil)
	}
	if err != nil {
		return err
	}
	if exported {
		fmt.Fprintf(e.stderr, "exported to %s\n", dest)
		e.holdClipboard(dest.lost(), e.clipboardWait)
	} else {
		fmt.Fprintln(e.stderr, "closed without exporting")
	}
	return nil
}
