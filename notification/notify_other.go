//go:build !linux

package notification

// Notify is unavailable here; the in-window alert is the only signal.
func (n *Notifier) Notify(title, body string) error { return ErrUnsupported }
