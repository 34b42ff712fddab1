// Package model defines shared data types used across the service.
//
// JSON field names mirror the wire contract the web client already
// speaks (_id, userName, fullname, senderID, createdAt), so changing a
// tag here is a breaking API change.
//
// Conventions:
//   - IDs: uuid.UUID for users, conversations, and messages
//   - Timestamps: time.Time, RFC 3339 on the wire
package model
