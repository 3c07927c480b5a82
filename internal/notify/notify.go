// Package notify carries user-facing notification events to a
// presentation collaborator. Events are produced here and consumed
// elsewhere; nothing in this process acts on them.
package notify

import "github.com/sirupsen/logrus"

// Severity classifies an event for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is one user-facing notification.
type Event struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier is a buffered fan-in of events. Publishing never blocks the
// producer: when no consumer keeps up, the event is dropped and logged.
type Notifier struct {
	events chan Event
	logger *logrus.Logger
}

func NewNotifier(logger *logrus.Logger) *Notifier {
	return &Notifier{
		events: make(chan Event, 64),
		logger: logger,
	}
}

func (n *Notifier) Publish(message string, severity Severity) {
	select {
	case n.events <- Event{Message: message, Severity: severity}:
	default:
		n.logger.WithField("message", message).Warn("Notifier.Publish.event dropped, buffer full")
	}
}

// Events is the consumer side of the channel.
func (n *Notifier) Events() <-chan Event {
	return n.events
}
