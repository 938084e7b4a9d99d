package memory

import (
	"context"
	"strings"
	"sync"

	"ourhour/internal/domain"
)

// CredentialRepository keeps registered email/password pairs for the lifetime of the process.
type CredentialRepository struct {
	mu    sync.RWMutex
	byKey map[string]domain.Credential
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{byKey: make(map[string]domain.Credential)}
}

func credentialKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byKey[credentialKey(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.User = c.User.Clone()
	return &c, nil
}

func (r *CredentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := credentialKey(c.Email)
	if _, ok := r.byKey[key]; ok {
		return domain.ErrDuplicateEmail
	}
	stored := *c
	stored.User = c.User.Clone()
	r.byKey[key] = stored
	return nil
}
