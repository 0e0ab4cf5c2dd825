package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/retouch/internal/brush"
	"github.com/example/retouch/internal/session"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

// CommandHelp lists the commands accepted by Exec.
const CommandHelp = `stroke x y [x y ...]   paint one stroke through buffer points
undo | redo
mode erase|restore     also: erase, restore
radius n | hardness n | opacity n
zoom f|in|out|reset
pan dx dy
reset                  recopy the processed image
status
done                   export and close
quit                   close without exporting
<action>               any keyboard action name, e.g. radius+ or opacity-50`

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

func parseInt(args []string, name string) (int, error) {
	if len(args) != 1 {
		return 0, usage("%s n", name)
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage("%s: %v", name, err)
	}
	return v, nil
}

// Exec runs one text command and returns what should be printed.
func (d *Dispatcher) Exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	s := d.sess
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "help", "?":
		return CommandHelp, nil
	case "status":
		return FormatStatus(s.Status()), nil
	case "stroke":
		if len(args) < 2 || len(args)%2 != 0 {
			return "", usage("stroke x y [x y ...]")
		}
		pts := make([]float64, len(args))
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return "", usage("stroke: %v", err)
			}
			pts[i] = v
		}
		if err := s.BeginStroke(pts[0], pts[1]); err != nil {
			return "", err
		}
		for i := 2; i < len(pts); i += 2 {
			if err := s.ContinueStroke(pts[i], pts[i+1]); err != nil {
				return "", err
			}
		}
		if err := s.EndStroke(); err != nil {
			return "", err
		}
		return fmt.Sprintf("stroke %d", s.Status().Strokes), nil
	case "undo":
		ok, err := s.Undo()
		if err != nil {
			return "", err
		}
		if !ok {
			return "nothing to undo", nil
		}
		return "undone", nil
	case "redo":
		ok, err := s.Redo()
		if err != nil {
			return "", err
		}
		if !ok {
			return "nothing to redo", nil
		}
		return "redone", nil
	case "mode":
		if len(args) != 1 {
			return "", usage("mode erase|restore")
		}
		m, err := brush.ParseMode(args[0])
		if err != nil {
			return "", usage("mode: %v", err)
		}
		s.SetMode(m)
		return "mode " + s.Brush().Mode.String(), nil
	case "radius":
		v, err := parseInt(args, cmd)
		if err != nil {
			return "", err
		}
		s.SetRadius(v)
		return fmt.Sprintf("radius %d", s.Brush().Radius), nil
	case "hardness":
		v, err := parseInt(args, cmd)
		if err != nil {
			return "", err
		}
		s.SetHardness(v)
		return fmt.Sprintf("hardness %d", s.Brush().Hardness), nil
	case "opacity":
		v, err := parseInt(args, cmd)
		if err != nil {
			return "", err
		}
		s.SetOpacity(v)
		return fmt.Sprintf("opacity %d", s.Brush().Opacity), nil
	case "zoom":
		if len(args) != 1 {
			return "", usage("zoom f|in|out|reset")
		}
		var err error
		switch args[0] {
		case "in":
			err = s.ZoomIn()
		case "out":
			err = s.ZoomOut()
		case "reset":
			err = s.ResetView()
		default:
			f, perr := strconv.ParseFloat(args[0], 64)
			if perr != nil {
				return "", usage("zoom: %v", perr)
			}
			err = s.ZoomTo(f)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("zoom %.0f%%", s.View().Zoom*100), nil
	case "pan":
		if len(args) != 2 {
			return "", usage("pan dx dy")
		}
		dx, err1 := strconv.Atoi(args[0])
		dy, err2 := strconv.Atoi(args[1])
		if err := errors.Join(err1, err2); err != nil {
			return "", usage("pan: %v", err)
		}
		if err := s.PanBy(dx, dy); err != nil {
			return "", err
		}
		p := s.View().Pan
		return fmt.Sprintf("pan %d,%d", p.X, p.Y), nil
	}
	if len(args) != 0 {
		return "", usage("%s takes no arguments", cmd)
	}
	if err := d.Trigger(cmd); err != nil {
		return "", err
	}
	if s.State() != session.Editing {
		return "closed", nil
	}
	return cmd, nil
}

// FormatStatus renders a one line summary of st.
func FormatStatus(st session.Status) string {
	if st.State != session.Editing {
		return st.State.String()
	}
	b := st.Brush
	return fmt.Sprintf("%s %dx%d mode=%s radius=%d hardness=%d opacity=%d zoom=%.0f%% history=%d/%d undo=%t redo=%t",
		st.State, st.Size.X, st.Size.Y, b.Mode, b.Radius, b.Hardness, b.Opacity,
		st.Zoom*100, st.Cursor+1, st.History, st.CanUndo, st.CanRedo)
}
