package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Password holds the bcrypt hash, never
// the plaintext, and is excluded from every API response.
type User struct {
	ID         uuid.UUID `json:"_id"`
	Username   string    `json:"userName"`
	FullName   string    `json:"fullname"`
	Password   string    `json:"-"`
	ProfilePic string    `json:"profilePic"`
	Gender     string    `json:"gender"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Public returns a copy safe for API responses.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
}

// PublicUser is the profile shape returned by the REST API.
type PublicUser struct {
	ID         uuid.UUID `json:"_id"`
	Username   string    `json:"userName"`
	FullName   string    `json:"fullname"`
	ProfilePic string    `json:"profilePic"`
}

// Conversation groups the messages exchanged between one pair of users.
// The participant pair is stored in normalized order (smaller UUID
// first) so either direction of lookup hits the same row.
type Conversation struct {
	ID           uuid.UUID `json:"_id"`
	ParticipantA uuid.UUID `json:"participantA"`
	ParticipantB uuid.UUID `json:"participantB"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Message is one stored chat message.
type Message struct {
	ID             uuid.UUID `json:"_id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderID"`
	ReceiverID     uuid.UUID `json:"receiverID"`
	Body           string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NormalizePair returns the two user IDs in canonical storage order.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() <= b.String() {
		return a, b
	}
	return b, a
}
