//go:build !linux && !darwin && !windows

package platform

import "log"

// Notify logs the notification; there is no notification service to reach.
func Notify(title, body string, opts Options) error {
	log.Printf("%s: %s: %s", opts.appName(), title, body)
	return nil
}
