package optimistic

import "log"

// Notifier reports terminal command outcomes to the user exactly once per
// command. Reports are non-blocking side channels: they never affect local
// state or control flow, and rapid commands produce independent reports.
type Notifier interface {
	ReportSuccess(message string)
	ReportFailure(message string)
}

// LogNotifier reports outcomes through the standard logger. It stands in for
// a toast surface in headless contexts such as CLIs and tests.
type LogNotifier struct {
	// Prefix is prepended to every reported message.
	Prefix string
}

// ReportSuccess logs a success message.
func (n LogNotifier) ReportSuccess(message string) {
	log.Printf("%ssuccess: %s", n.Prefix, message)
}

// ReportFailure logs a failure message.
func (n LogNotifier) ReportFailure(message string) {
	log.Printf("%sfailure: %s", n.Prefix, message)
}
