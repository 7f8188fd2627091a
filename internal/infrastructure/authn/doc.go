// Package authn provides the Authenticator implementations: Local checks
// bcrypt hashes held in the user store, Remote delegates to a sign-in
// service over HTTP.
package authn
