package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/retouch/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when an edited image is written to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when an edited image is copied to the clipboard.
	EventCopy Event = "copy"
	// EventPDF emits a notification when an edited image is written as a PDF.
	EventPDF Event = "pdf"
)

// Events lists every notification trigger.
var Events = []Event{EventSave, EventCopy, EventPDF}

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title   string
	Timeout time.Duration
	Events  map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   platform.DefaultAppName,
		Timeout: 5 * time.Second,
		Events: map[Event]EventPreference{
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
			EventPDF:  {Template: "Wrote PDF %s"},
		},
	}
}

// LoadPreferences reads configuration from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("RETOUCH_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("RETOUCH_NOTIFY_SAVE_TEXT", EventSave)
	apply("RETOUCH_NOTIFY_COPY_TEXT", EventCopy)
	apply("RETOUCH_NOTIFY_PDF_TEXT", EventPDF)
	return prefs
}

// notifyFn is replaced in tests.
var notifyFn = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Timeout: prefs.Timeout, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event produces notifications.
func (n *Notifier) Enabled(event Event) bool { return n.enabledFor(event) }

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	n.file(EventSave, path, true)
}

// PDF sends a notification for a written PDF file.
func (n *Notifier) PDF(path string) {
	n.file(EventPDF, path, false)
}

func (n *Notifier) file(event Event, path string, iconFromFile bool) {
	if !n.enabledFor(event) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil && iconFromFile {
			opts.IconPath = abs
		}
	}
	n.dispatch(event, detail, opts)
}

// Copy sends a clipboard notification. The copied image, when given, is shown
// as the notification icon.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	if n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.Timeout = n.prefs.Timeout
	if err := notifyFn(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if n == nil {
		return ""
	}
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "retouch-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
