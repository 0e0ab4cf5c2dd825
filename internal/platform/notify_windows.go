//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	return "'" + escaped + "'"
}

// toastScript builds the PowerShell that shows one toast. The image template
// is used only when an icon is given.
func toastScript(title, body string, opts Options) string {
	icon := strings.TrimSpace(opts.IconPath)
	tmpl := "ToastText02"
	if icon != "" {
		tmpl = "ToastImageAndText02"
	}
	var b strings.Builder
	b.WriteString(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; `)
	fmt.Fprintf(&b, `$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s); `, tmpl)
	b.WriteString(`$texts = $template.GetElementsByTagName("text"); `)
	fmt.Fprintf(&b, `$texts.Item(0).AppendChild($template.CreateTextNode(%s)) > $null; `, psQuote(title))
	fmt.Fprintf(&b, `$texts.Item(1).AppendChild($template.CreateTextNode(%s)) > $null; `, psQuote(body))
	if icon != "" {
		fmt.Fprintf(&b, `$template.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	b.WriteString(`$toast = [Windows.UI.Notifications.ToastNotification]::new($template); `)
	if opts.Timeout > 0 {
		fmt.Fprintf(&b, `$toast.ExpirationTime = [DateTimeOffset]::Now.AddMilliseconds(%d); `, opts.Timeout.Milliseconds())
	}
	fmt.Fprintf(&b, `[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast);`, psQuote(opts.appName()))
	return b.String()
}

// Notify displays a toast notification using the Windows notification center.
func Notify(title, body string, opts Options) error {
	cmd := exec.Command("powershell.exe", "-NoProfile", "-Command", toastScript(title, body, opts))
	return cmd.Run()
}
