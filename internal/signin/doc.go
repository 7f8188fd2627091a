// Package signin holds the sign-in form: its local state, field validation
// and the submission flow that hands one credential pair to an
// authenticator at a time.
//
// The pure functions (OnFieldChange, Validate, BeginSubmit, CompleteSubmit)
// describe every transition of FormState. Form wraps them with a mutex so
// field edits can keep arriving while a submission is suspended on the
// authenticator.
package signin
