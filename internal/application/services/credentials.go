package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"manager-account-api/internal/application/ports"
	"manager-account-api/internal/domain/account"
	"manager-account-api/internal/infrastructure/jwt"
)

var (
	ErrHash    = errors.New("could not hash password")
	ErrCompare = errors.New("could not compare password")
	ErrToken   = errors.New("could not generate token")
)

type CredentialService struct {
	jwtService *jwt.Service
	cost       int
	tokenTTL   time.Duration
}

func NewCredentialService(jwtService *jwt.Service, cost int, tokenTTL time.Duration) ports.Credentials {
	return &CredentialService{
		jwtService: jwtService,
		cost:       cost,
		tokenTTL:   tokenTTL,
	}
}

func (cs *CredentialService) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cs.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHash, err)
	}
	return string(hash), nil
}

func (cs *CredentialService) Verify(secret, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrCompare, err)
	}
}

func (cs *CredentialService) IssueToken(a *account.Account) (string, error) {
	token, err := cs.jwtService.GenerateJWT(a.ID, string(a.AccountType), string(a.Status), cs.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToken, err)
	}
	return token, nil
}

// VerifyToken returns jwt.ErrInvalidToken or jwt.ErrExpiredToken on failure.
func (cs *CredentialService) VerifyToken(token string) (account.Caller, error) {
	claims, err := cs.jwtService.ValidateToken(token)
	if err != nil {
		return account.Caller{}, err
	}
	return account.Caller{
		ID:          claims.AccountID,
		AccountType: account.Type(claims.AccountType),
		Status:      account.Status(claims.Status),
	}, nil
}
