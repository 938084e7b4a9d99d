package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ourhour/internal/domain"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type credentialRepository struct {
	DB  *sql.DB
	now func() time.Time
}

// NewCredentialRepository stores registered accounts in the credentials table. The profile is
// kept as JSON next to the password hash.
func NewCredentialRepository(db *sql.DB) domain.CredentialRepository {
	return &credentialRepository{DB: db, now: time.Now}
}

// EnsureCredentialSchema creates the credentials table if it does not exist.
func EnsureCredentialSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS credentials (
			email         TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			salt          TEXT NOT NULL,
			profile       TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create credentials: %w", err)
	}
	return nil
}

func (r *credentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	profile, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	query := `
		INSERT INTO credentials (email, password_hash, salt, profile, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.DB.ExecContext(ctx, query, normalizeEmail(c.Email), c.PasswordHash, c.Salt, string(profile), r.now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	query := `
		SELECT email, password_hash, salt, profile
		FROM credentials
		WHERE email = $1
	`
	var (
		c       domain.Credential
		profile string
	)
	err := r.DB.QueryRowContext(ctx, query, normalizeEmail(email)).Scan(&c.Email, &c.PasswordHash, &c.Salt, &profile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select credential: %w", err)
	}
	c.User = &domain.User{}
	if err := json.Unmarshal([]byte(profile), c.User); err != nil {
		return nil, fmt.Errorf("decode profile for %s: %w", c.Email, err)
	}
	return &c, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
