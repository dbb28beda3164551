package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ledgerline/onboarding/internal/models"
	"github.com/ledgerline/onboarding/internal/session"
	_ "github.com/jackc/pgx/v4/stdlib"
)

type Repository interface {
	CreateUser(ctx context.Context, login, passwordHash string) (int64, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	SessionStore() session.Store

	InitDB(databaseURI string) error
	Close() error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURI string) *PostgresRepository {
	return &PostgresRepository{
		db: nil,
	}
}

func (r *PostgresRepository) InitDB(databaseURI string) error {
	db, err := sql.Open("pgx", databaseURI)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	r.db = db

	err = r.createTables()
	if err != nil {
		db.Close()
		return err
	}

	return nil
}

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *PostgresRepository) createTables() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			login VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS onboarding_sessions (
			user_id INTEGER PRIMARY KEY REFERENCES users(id),
			id VARCHAR(36) NOT NULL,
			current_step VARCHAR(20) NOT NULL,
			validation_completed BOOLEAN NOT NULL DEFAULT FALSE,
			started_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, passwordHash string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		"INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id",
		login, passwordHash,
	).Scan(&id)

	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, login, password_hash, created_at FROM users WHERE login = $1",
		login,
	).Scan(&user.ID, &user.Login, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, login, password_hash, created_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Login, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// SessionStore exposes the onboarding_sessions table as a session.Store.
// The returned view reads r.db lazily, so it may be built before InitDB.
func (r *PostgresRepository) SessionStore() session.Store {
	return &pgSessionStore{repo: r}
}

type pgSessionStore struct {
	repo *PostgresRepository
}

func (s *pgSessionStore) Get(ctx context.Context, userID int64) (*models.Session, error) {
	sess := &models.Session{}
	err := s.repo.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, current_step, validation_completed, started_at, updated_at
         FROM onboarding_sessions
         WHERE user_id = $1`,
		userID,
	).Scan(&sess.ID, &sess.UserID, &sess.CurrentStep, &sess.ValidationCompleted, &sess.StartedAt, &sess.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return sess, nil
}

func (s *pgSessionStore) Put(ctx context.Context, sess *models.Session) error {
	_, err := s.repo.db.ExecContext(
		ctx,
		`INSERT INTO onboarding_sessions (user_id, id, current_step, validation_completed, started_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (user_id) DO UPDATE SET
            id = EXCLUDED.id,
            current_step = EXCLUDED.current_step,
            validation_completed = EXCLUDED.validation_completed,
            started_at = EXCLUDED.started_at,
            updated_at = EXCLUDED.updated_at`,
		sess.UserID, sess.ID, string(sess.CurrentStep), sess.ValidationCompleted, sess.StartedAt, sess.UpdatedAt,
	)
	return err
}

func (s *pgSessionStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.repo.db.ExecContext(
		ctx,
		"DELETE FROM onboarding_sessions WHERE user_id = $1",
		userID,
	)
	return err
}
