// Package deliver routes chat messages to live connections.
//
// It is not a message broker: there is no queueing, acknowledgement,
// or retry. If the recipient has no live connection the event is
// dropped and the message reaches them later via the REST history.
package deliver
