// Package auth provides password hashing, session token issuance, and
// the HTTP middleware that resolves a request's authenticated user.
//
// Tokens are HS256 JWTs carrying the user ID as the subject claim. The
// same token authenticates both REST requests and the WebSocket attach.
package auth
