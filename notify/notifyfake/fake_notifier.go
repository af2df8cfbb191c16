package notifyfake

import (
	"sync"

	"github.com/jrsteele09/go-efact-client/notify"
)

var _ notify.Notifier = (*FakeNotifier)(nil)

type Notification struct {
	Level   notify.Level
	Message string
}

// FakeNotifier records every notification it receives.
type FakeNotifier struct {
	notifications []Notification
	lock          sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Success(message string) { n.add(notify.LevelSuccess, message) }
func (n *FakeNotifier) Info(message string)    { n.add(notify.LevelInfo, message) }
func (n *FakeNotifier) Warning(message string) { n.add(notify.LevelWarning, message) }
func (n *FakeNotifier) Error(message string)   { n.add(notify.LevelError, message) }

func (n *FakeNotifier) add(level notify.Level, message string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.notifications = append(n.notifications, Notification{Level: level, Message: message})
}

func (n *FakeNotifier) Notifications() []Notification {
	n.lock.Lock()
	defer n.lock.Unlock()
	out := make([]Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// Errors returns the messages of error-level notifications in order.
func (n *FakeNotifier) Errors() []string {
	var out []string
	for _, v := range n.Notifications() {
		if v.Level == notify.LevelError {
			out = append(out, v.Message)
		}
	}
	return out
}
