// file: internal/notify/notify.go
// version: 1.0.0
// guid: 5a1c8e2f-7b94-4d36-a0f1-c63d9e82b547

package notify

// Notifier is implemented by anything able to deliver the settle
// notification. Volume is in [0, 1].
type Notifier interface {
	Notify(sound string, volume float64) error
}

// Func adapts a plain function to the Notifier interface.
type Func func(sound string, volume float64) error

// Notify calls f.
func (f Func) Notify(sound string, volume float64) error {
	return f(sound, volume)
}
