// Package gameup is the typed client for the GameUp game services API.
//
// Client calls need only the game's API key. Logging a gamer in returns a
// SessionClient whose calls also carry the gamer token: profile, cloud
// storage, achievements, leaderboards, turn-based matches, push subscription
// and store purchase verification. Every call goes through the executor in
// package http, so retries, compression and error classification behave
// identically across the API.
//
// Errors are http.ClientError values; Failure turns one into the
// (status, reason) pair the service reported.
package gameup
