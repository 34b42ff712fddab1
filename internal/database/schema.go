package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are applied in order at startup. Each statement is
// idempotent so repeated boots are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY,
		username    TEXT NOT NULL UNIQUE,
		full_name   TEXT NOT NULL,
		password    TEXT NOT NULL,
		profile_pic TEXT NOT NULL DEFAULT '',
		gender      TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// participant_a/participant_b are stored in normalized order
	// (least UUID first) so one row serves both directions of a pair.
	`CREATE TABLE IF NOT EXISTS conversations (
		id            UUID PRIMARY KEY,
		participant_a UUID NOT NULL REFERENCES users(id),
		participant_b UUID NOT NULL REFERENCES users(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (participant_a, participant_b)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id              UUID PRIMARY KEY,
		conversation_id UUID NOT NULL REFERENCES conversations(id),
		sender_id       UUID NOT NULL REFERENCES users(id),
		receiver_id     UUID NOT NULL REFERENCES users(id),
		body            TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS messages_conversation_created_idx
		ON messages (conversation_id, created_at)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
