package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pingline/pingline/internal/model"
)

// UserStore implements Users on a PostgreSQL pool.
type UserStore struct {
	db *pgxpool.Pool
}

// NewUserStore creates a user store backed by the given pool.
func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u model.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, username, full_name, password, profile_pic, gender)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.FullName, u.Password, u.ProfilePic, u.Gender,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getOne(ctx,
		`SELECT id, username, full_name, password, profile_pic, gender, created_at, updated_at
		 FROM users WHERE username = $1`, username)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.getOne(ctx,
		`SELECT id, username, full_name, password, profile_pic, gender, created_at, updated_at
		 FROM users WHERE id = $1`, id)
}

func (s *UserStore) ListOthers(ctx context.Context, exclude uuid.UUID) ([]model.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, username, full_name, password, profile_pic, gender, created_at, updated_at
		 FROM users WHERE id <> $1 ORDER BY created_at DESC`, exclude)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	row := s.db.QueryRow(ctx, query, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Password,
		&u.ProfilePic, &u.Gender, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
