package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/favorites-api/internal/models"
)

// PostgresStore handles users, the people/planet catalog and favorites in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// NewPool connects and pings PostgreSQL.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      VARCHAR(255) UNIQUE NOT NULL,
		password   VARCHAR(255) NOT NULL,
		is_active  BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS people (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(250) NOT NULL,
		gender     VARCHAR(50)  NOT NULL DEFAULT '',
		birth_year VARCHAR(50)  NOT NULL DEFAULT '',
		height     VARCHAR(50)  NOT NULL DEFAULT '',
		mass       VARCHAR(50)  NOT NULL DEFAULT '',
		hair_color VARCHAR(50)  NOT NULL DEFAULT '',
		eye_color  VARCHAR(50)  NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS planets (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(250) NOT NULL,
		climate    VARCHAR(100) NOT NULL DEFAULT '',
		terrain    VARCHAR(100) NOT NULL DEFAULT '',
		population VARCHAR(50)  NOT NULL DEFAULT '',
		diameter   VARCHAR(50)  NOT NULL DEFAULT '',
		gravity    VARCHAR(50)  NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT      NOT NULL REFERENCES users(id)   ON DELETE CASCADE,
		people_id  BIGINT               REFERENCES people(id)  ON DELETE CASCADE,
		planet_id  BIGINT               REFERENCES planets(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT favorites_one_target     CHECK (num_nonnulls(people_id, planet_id) = 1),
		CONSTRAINT favorites_user_people_key UNIQUE (user_id, people_id),
		CONSTRAINT favorites_user_planet_key UNIQUE (user_id, planet_id)
	)`,
	`CREATE INDEX IF NOT EXISTS favorites_user_id_idx ON favorites (user_id)`,
}

// Migrate creates the tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, email, hashedPassword string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password)
		 VALUES ($1, $2)
		 RETURNING id, email, is_active, created_at`,
		email, hashedPassword,
	).Scan(&u.ID, &u.Email, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", mapError(err))
	}
	return &u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, email, is_active, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password, is_active, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, is_active, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}
