// Package identity locates or provisions users for onboarding flows.
// Provisioning is explicit: callers receive a tagged result so they can
// trigger a credential-reset flow for newly minted users instead of silently
// handing out placeholder credentials.
package identity

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type userStore interface {
	GetByEmailTx(ctx context.Context, tx *sql.Tx, email string) (*domain.User, error)
	CreateTx(ctx context.Context, tx *sql.Tx, user *domain.User) error
}

type Profile struct {
	FullName string
	Email    string
	Phone    string
}

type Resolution struct {
	User *domain.User
	// Provisioned is true when the user was created by this call and holds a
	// placeholder credential that must be reset out-of-band.
	Provisioned bool
}

type Resolver struct {
	users userStore
}

func NewResolver(users userStore) *Resolver {
	return &Resolver{users: users}
}

// ResolveOrProvision finds the user by email or creates one inside the given
// unit of work, so a failed operation never leaves an orphan user behind.
func (r *Resolver) ResolveOrProvision(ctx context.Context, tx *sql.Tx, p Profile) (*Resolution, error) {
	u, err := r.users.GetByEmailTx(ctx, tx, p.Email)
	if err == nil {
		return &Resolution{User: u}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("ResolveOrProvision: %w", err)
	}

	hash, err := placeholderCredential()
	if err != nil {
		return nil, fmt.Errorf("ResolveOrProvision: %w", err)
	}

	u = &domain.User{
		ID:           uuid.New(),
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.users.CreateTx(ctx, tx, u); err != nil {
		return nil, fmt.Errorf("ResolveOrProvision: create: %w", err)
	}

	return &Resolution{User: u, Provisioned: true}, nil
}

// placeholderCredential hashes a random secret nobody knows; the user cannot
// authenticate until they reset it.
func placeholderCredential() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("placeholderCredential: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("placeholderCredential: %w", err)
	}
	return string(hash), nil
}
