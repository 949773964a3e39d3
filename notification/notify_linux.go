//go:build linux

package notification

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod = "org.freedesktop.Notifications.Notify"
)

// Notify posts a critical notification on the session bus.
func (n *Notifier) Notify(title, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}
	call := conn.Object(notifyDest, notifyPath).Call(notifyMethod, 0,
		n.appName, uint32(0), "", title, body, []string{}, hints, int32(5000))
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
