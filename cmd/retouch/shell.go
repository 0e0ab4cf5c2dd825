package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/example/retouch/internal/input"
	"github.com/example/retouch/internal/session"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// shellCmd drives a session from text commands, one per line.
type shellCmd struct {
	*root
	fs *flag.FlagSet
	imageFlags
	execs commandList
}

func (s *shellCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *shellCmd) Program() string {
	return s.root.Program() + " shell"
}

func parseShellCmd(args []string, r *root) (*shellCmd, error) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	s := &shellCmd{root: r, fs: fs}
	s.register(fs)
	fs.Var(&s.execs, "e", "execute a command instead of reading stdin (may be specified multiple times)")
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// isTerminal is replaced in tests.
var isTerminal = func(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s *shellCmd) Run() error {
	ctx := context.Background()
	sess := s.newSession(nil)
	if err := s.open(ctx, sess, &s.imageFlags); err != nil {
		return err
	}
	// Edits are never kept past the shell: anything not exported is dropped.
	defer func() {
		if sess.State() == session.Editing {
			fmt.Fprintln(s.stderr, "discarding unsaved edits")
			_ = sess.Close(ctx, nil)
		}
	}()

	dest := s.destinations(&s.imageFlags)
	defer func() { s.holdClipboard(dest.lost(), s.clipboardWait) }()
	disp := input.New(sess,
		input.WithDone(func() error {
			if err := sess.Close(ctx, dest.sink); err != nil {
				return err
			}
			fmt.Fprintf(s.stdout, "exported to %s\n", dest)
			return nil
		}),
	)
	fmt.Fprintln(s.stdout, input.FormatStatus(sess.Status()))

	if len(s.execs) > 0 {
		for _, line := range s.execs {
			if err := s.exec(disp, line); err != nil {
				return fmt.Errorf("%s: %w", line, err)
			}
			if sess.State() != session.Editing {
				break
			}
		}
		return nil
	}

	prompt := isTerminal(s.stdin)
	scanner := bufio.NewScanner(s.stdin)
	for sess.State() == session.Editing {
		if prompt {
			fmt.Fprint(s.stdout, "retouch> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" {
			break
		}
		if err := s.exec(disp, line); err != nil {
			fmt.Fprintln(s.stderr, err)
		}
	}
	return scanner.Err()
}

func (s *shellCmd) exec(d *input.Dispatcher, line string) error {
	out, err := d.Exec(line)
	if err != nil {
		if errors.Is(err, input.ErrUsage) || errors.Is(err, input.ErrUnknownAction) {
			return fmt.Errorf("%w (try help)", err)
		}
		return err
	}
	if out != "" {
		fmt.Fprintln(s.stdout, strings.TrimRight(out, "\n"))
	}
	return nil
}
