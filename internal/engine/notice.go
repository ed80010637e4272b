package engine

// Severity ranks a notice for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-facing message produced by an engine operation.
type Notice struct {
	Severity Severity
	Message  string
}

// Notifier receives notices as operations complete.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// SyncStatus describes the state of the last durable write.
type SyncStatus string

const (
	SyncOffline    SyncStatus = "offline"
	SyncSaving     SyncStatus = "saving"
	SyncSynced     SyncStatus = "synced"
	SyncSaveFailed SyncStatus = "save-failed"
)
