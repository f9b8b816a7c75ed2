package ports

import (
	"manager-account-api/internal/domain/account"
)

type Credentials interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) (bool, error)
	IssueToken(a *account.Account) (string, error)
	TokenVerifier
}

type TokenVerifier interface {
	VerifyToken(token string) (account.Caller, error)
}
