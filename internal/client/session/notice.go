package session

// NoticeKind classifies a user-visible message raised by the machine.
type NoticeKind int

const (
	// NoticeConfig reports a deployment problem, e.g. the server refusing our origin.
	NoticeConfig NoticeKind = iota
	// NoticeRejected carries the server's reason for refusing credentials.
	NoticeRejected
	// NoticeFailure is a generic transport or protocol failure.
	NoticeFailure
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeConfig:
		return "config"
	case NoticeRejected:
		return "rejected"
	default:
		return "failure"
	}
}

type Notice struct {
	Kind    NoticeKind
	Message string
}

const (
	msgOriginRejected = "The server refused requests from this application's origin. Check the configured origin."
	msgFailure        = "Something went wrong while talking to the server. Please try again."
	msgLogoutFailure  = "The server did not confirm the logout; you have been signed out locally."
)

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
