package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pingline/pingline/internal/model"
)

// Errors
var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Users is the account store consumed by the API layer.
type Users interface {
	// Create inserts a new user. Returns ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, u model.User) error

	// GetByUsername returns the user with the given username, or
	// ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (model.User, error)

	// GetByID returns the user with the given ID, or ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)

	// ListOthers returns every user except the given one, newest first.
	ListOthers(ctx context.Context, exclude uuid.UUID) ([]model.User, error)
}

// Conversations is the message store consumed by the API layer.
type Conversations interface {
	// FindOrCreate returns the conversation for the unordered pair
	// (a, b), creating it on first contact.
	FindOrCreate(ctx context.Context, a, b uuid.UUID) (model.Conversation, error)

	// Append stores a message in a conversation and returns it with
	// its server-assigned ID and timestamp.
	Append(ctx context.Context, conversationID, senderID, receiverID uuid.UUID, body string) (model.Message, error)

	// History returns the ordered messages between the pair (a, b).
	// A pair with no conversation yields an empty slice, not an error.
	History(ctx context.Context, a, b uuid.UUID) ([]model.Message, error)
}
