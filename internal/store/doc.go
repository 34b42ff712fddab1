// Package store provides PostgreSQL-backed persistence for accounts and
// conversations.
//
// Conversation rows represent an unordered pair of users: the pair is
// normalized before storage, so (alice, bob) and (bob, alice) resolve
// to the same conversation.
package store
