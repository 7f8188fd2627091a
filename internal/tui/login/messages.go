package login

import (
	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/signin"
)

// SubmittedMsg carries the settled outcome of a submission started by the
// screen.
type SubmittedMsg struct {
	Outcome signin.Outcome
}

// SignedInMsg is emitted once the authenticator accepts the credentials.
// The screen forwards the principal and keeps no copy of it.
type SignedInMsg struct {
	Principal auth.Principal
}
