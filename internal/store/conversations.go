package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pingline/pingline/internal/model"
)

// ConversationStore implements Conversations on a PostgreSQL pool.
type ConversationStore struct {
	db *pgxpool.Pool
}

// NewConversationStore creates a conversation store backed by the given pool.
func NewConversationStore(db *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{db: db}
}

func (s *ConversationStore) FindOrCreate(ctx context.Context, a, b uuid.UUID) (model.Conversation, error) {
	pa, pb := model.NormalizePair(a, b)

	// The no-op DO UPDATE makes RETURNING yield the existing row on
	// conflict, so first contact and repeat lookups share one statement.
	row := s.db.QueryRow(ctx,
		`INSERT INTO conversations (id, participant_a, participant_b)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (participant_a, participant_b)
		 DO UPDATE SET participant_a = EXCLUDED.participant_a
		 RETURNING id, participant_a, participant_b, created_at`,
		uuid.New(), pa, pb,
	)

	var c model.Conversation
	if err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt); err != nil {
		return model.Conversation{}, fmt.Errorf("find or create conversation: %w", err)
	}
	return c, nil
}

func (s *ConversationStore) Append(ctx context.Context, conversationID, senderID, receiverID uuid.UUID, body string) (model.Message, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, body)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, conversation_id, sender_id, receiver_id, body, created_at`,
		uuid.New(), conversationID, senderID, receiverID, body,
	)

	var m model.Message
	if err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
		return model.Message{}, fmt.Errorf("append message: %w", err)
	}
	return m, nil
}

func (s *ConversationStore) History(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	pa, pb := model.NormalizePair(a, b)

	rows, err := s.db.Query(ctx,
		`SELECT m.id, m.conversation_id, m.sender_id, m.receiver_id, m.body, m.created_at
		 FROM messages m
		 JOIN conversations c ON c.id = m.conversation_id
		 WHERE c.participant_a = $1 AND c.participant_b = $2
		 ORDER BY m.created_at, m.id`,
		pa, pb,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return messages, nil
}
