package session

// LoginPath is the entry point unauthenticated users are redirected to.
const LoginPath = "/login"

// Action is the route guard's verdict for a protected view.
type Action int

const (
	// ActionAllow renders the requested view.
	ActionAllow Action = iota

	// ActionLoading shows a loading indicator while verification is in
	// flight; neither outcome may be assumed.
	ActionLoading

	// ActionRedirect sends the user to the login entry point.
	ActionRedirect
)

// Decision is the guard's output. On redirect, ReturnTo preserves the
// originally requested path so a successful login can come back to it.
type Decision struct {
	Action     Action
	RedirectTo string
	ReturnTo   string
}

// Decide maps the session state and a requested protected path to a guard
// decision. It is a pure function: the guard holds no state of its own.
func Decide(state State, path string) Decision {
	switch state {
	case StateAuthenticated:
		return Decision{Action: ActionAllow}
	case StateUninitialized, StateVerifying:
		return Decision{Action: ActionLoading}
	default:
		return Decision{Action: ActionRedirect, RedirectTo: LoginPath, ReturnTo: path}
	}
}
