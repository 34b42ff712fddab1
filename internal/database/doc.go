// Package database provides connection pool management for PostgreSQL.
//
// A single pool holds all chat data: users, conversations, and messages.
// The schema is bootstrapped at startup with idempotent statements.
package database
