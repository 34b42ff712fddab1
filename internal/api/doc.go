// Package api provides the REST surface of the chat service: account
// registration and login, the contact list, and message persistence.
// Handlers are stateless and hold their dependencies through the
// store interfaces, which keeps them testable without a database.
package api
