// Package presence tracks which users currently hold a live WebSocket
// connection.
//
// The registry is an explicit component owned by the realtime hub, not
// package state, so tests can run independent instances. A user who
// attaches a second connection silently replaces the mapping for the
// first; this matches the client's reconnect behavior, where the new
// socket supersedes the old one.
package presence
