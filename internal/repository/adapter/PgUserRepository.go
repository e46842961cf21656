package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	port "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/repository/port"
)

// PgUserRepository implements the user repository port over Postgres.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ port.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*port.User, error) {
	return r.findOne(ctx, `
		SELECT id::text, name, email, password_hash, avatar, role, status, created_at
		FROM users WHERE email = $1
	`, email)
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*port.User, error) {
	return r.findOne(ctx, `
		SELECT id::text, name, email, password_hash, avatar, role, status, created_at
		FROM users WHERE id = $1::uuid
	`, id)
}

func (r *PgUserRepository) findOne(ctx context.Context, query string, arg any) (*port.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u port.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar, &u.Role, &u.Status, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
