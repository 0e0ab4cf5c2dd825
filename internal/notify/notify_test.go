package notify

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/retouch/internal/platform"
)

type sent struct {
	Title, Body string
	HasIcon     bool
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := notifyFn
	notifyFn = func(title, body string, opts platform.Options) error {
		if opts.IconPath != "" {
			if _, err := os.Stat(opts.IconPath); err != nil {
				t.Errorf("icon %q missing during notify: %v", opts.IconPath, err)
			}
		}
		got = append(got, sent{Title: title, Body: body, HasIcon: opts.IconPath != ""})
		return nil
	}
	t.Cleanup(func() { notifyFn = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultPreferences())
	n.Save("x.png")
	n.Copy("", nil)
	n.PDF("x.pdf")
	if len(*got) != 0 {
		t.Fatalf("sent %v while disabled", *got)
	}
	var nilNotifier *Notifier
	nilNotifier.Save("x.png")
}

func TestEnabledEvents(t *testing.T) {
	got := capture(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "cut.png")
	if err := os.WriteFile(out, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	for _, e := range Events {
		n.Enable(e, true)
	}
	n.Save(out)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	n.PDF(filepath.Join(dir, "cut.pdf"))

	want := []sent{
		{Title: "Retouch", Body: "Saved " + out, HasIcon: true},
		{Title: "Retouch", Body: "Copied image to clipboard", HasIcon: true},
		{Title: "Retouch", Body: "Wrote PDF " + filepath.Join(dir, "cut.pdf")},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("RETOUCH_NOTIFY_TITLE", "Cutouts")
	t.Setenv("RETOUCH_NOTIFY_SAVE_TEXT", "Stored %s")
	prefs := LoadPreferences()
	if prefs.Title != "Cutouts" {
		t.Fatalf("title %q", prefs.Title)
	}
	if got := prefs.Events[EventSave].Template; got != "Stored %s" {
		t.Fatalf("save template %q", got)
	}
	if got := prefs.Events[EventCopy].Template; got != "Copied %s to clipboard" {
		t.Fatalf("copy template changed to %q", got)
	}
}
