//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

// Notify sends a desktop notification over the session bus
// (org.freedesktop.Notifications). The exported image, when given, is
// passed both as app icon and as image-path hint.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	timeout := int32(-1)
	if opts.Timeout > 0 {
		timeout = int32(opts.Timeout.Milliseconds())
	}
	hints := map[string]dbus.Variant{
		"category":      dbus.MakeVariant("transfer.complete"),
		"desktop-entry": dbus.MakeVariant("retouch"),
	}
	if opts.IconPath != "" {
		hints["image-path"] = dbus.MakeVariant("file://" + opts.IconPath)
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		opts.appName(), uint32(0), opts.IconPath, title, body, []string{}, hints, timeout)
	return call.Err
}
