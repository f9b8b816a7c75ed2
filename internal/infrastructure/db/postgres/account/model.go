package account

import (
	"time"

	"github.com/google/uuid"
)

type (
	Account struct {
		ID              uuid.UUID
		Name            string
		Email           string
		Phone           string
		PasswordHash    string
		ProfileImageURL string
		AccountType     string
		Status          string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Accounts []*Account
)
